// Package restjson generates the aws.protocols#restJson1 protocol layer.
package restjson

import (
	"fmt"

	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
	"github.com/aws/smithy-go-codegen/traits"
)

// Protocol is the shape ID of the restJson1 protocol trait.
const Protocol = "aws.protocols#restJson1"

const (
	jsonContentType        = "application/json"
	eventStreamContentType = "application/vnd.amazon.eventstream"
	blobContentType        = "application/octet-stream"
	stringContentType      = "text/plain"
)

// Hooks implements codegen.HTTPBindingHooks for restJson1.
type Hooks struct {
	skip codegen.SkipList
}

var _ codegen.HTTPBindingHooks = (*Hooks)(nil)

// New returns the restJson1 protocol generator with the default skip list.
func New() *codegen.HTTPBindingProtocolGenerator {
	return NewWithSkipList(DefaultSkipList())
}

// NewWithSkipList returns the restJson1 protocol generator skipping the
// compliance fixtures in skip.
func NewWithSkipList(skip codegen.SkipList) *codegen.HTTPBindingProtocolGenerator {
	return codegen.NewHTTPBindingProtocolGenerator(&Hooks{skip: skip})
}

func (*Hooks) Protocol() string { return Protocol }

func (*Hooks) DocumentContentType() string { return jsonContentType }

func (*Hooks) DocumentTimestampFormat() smithytime.Format { return smithytime.EpochSeconds }

func (h *Hooks) SkipList() codegen.SkipList { return h.skip }

// ShouldWriteDefaultBody reports whether an operation that binds nothing to
// the body sends {}: operations with a modeled input whose method carries a
// body.
func (*Hooks) ShouldWriteDefaultBody(op *smithy.Operation) bool {
	route, ok := smithy.SchemaTrait[*traits.HTTP](op.Schema)
	if !ok {
		return false
	}
	return codegen.DefaultBodyForMethod(route.Method) && op.Input.ID() != smithy.UnitID
}

// codec returns the codec literal. Documents leave out members bound
// elsewhere in the message; payloads and events are encoded whole.
func (h *Hooks) codec(w *codegen.Writer, document bool) string {
	w.AddImport("smithyjson", "smithytime")
	format := codegen.TimeFormatExpr(h.DocumentTimestampFormat())
	if document {
		return fmt.Sprintf("&smithyjson.Codec{UseJSONName: true, TimestampFormat: %s, SkipHTTPBindings: true}", format)
	}
	return fmt.Sprintf("&smithyjson.Codec{UseJSONName: true, TimestampFormat: %s}", format)
}

func setContentType(w *codegen.Writer, contentType string) {
	w.Write("if !encoder.HasHeader(\"Content-Type\") {")
	w.Write("encoder.SetHeader(\"Content-Type\").String(%q)", contentType)
	w.Write("}")
}

func mediaType(m *smithy.Schema, def string) string {
	if t, ok := smithy.SchemaTrait[*traits.MediaType](m); ok && len(t.Type) != 0 {
		return t.Type
	}
	return def
}

func setStream(w *codegen.Writer, reader string) {
	w.AddImport("smithy")
	w.Write("request, err = request.SetStream(%s)", reader)
	w.Write("if err != nil {\nreturn nil, &smithy.SerializationError{Err: err}\n}")
}

// SerializeDocumentBody emits the JSON document of the document bound
// members. Without any, the body is the fixed default body or nothing.
func (h *Hooks) SerializeDocumentBody(c *codegen.BodyContext) error {
	w := c.Writer

	if len(c.Plan.Document) == 0 {
		if !c.DefaultBody {
			w.Write("contentLength = 0")
			return nil
		}
		w.AddImport("bytes")
		setContentType(w, h.DocumentContentType())
		w.Write("contentLength = 2")
		setStream(w, "bytes.NewReader([]byte(\"{}\"))")
		return nil
	}

	w.AddImport("bytes")
	setContentType(w, h.DocumentContentType())
	w.Write("codec := %s", h.codec(w, true))
	w.Write("content := codec.Serialize(%s, %s)", c.Symbols.InputSchemaName(c.Operation), c.Target)
	if c.DefaultBody {
		w.Write("if len(content) == 0 {\ncontent = []byte(\"{}\")\n}")
	}
	w.Write("contentLength = int64(len(content))")
	setStream(w, "bytes.NewReader(content)")
	return nil
}

// SerializePayloadBody emits the body of the member bound to the payload,
// branching on its payload kind.
func (h *Hooks) SerializePayloadBody(c *codegen.BodyContext) error {
	w := c.Writer
	m := c.Plan.Payload.Member
	field := c.Target + "." + c.Symbols.MemberName(m)

	switch c.Plan.PayloadKind {
	case codegen.PayloadEventStream:
		w.AddImport("smithyio")
		setContentType(w, eventStreamContentType)
		w.Write("body := smithyio.NewBytesProvider(16)")
		setStream(w, "body")

	case codegen.PayloadStreamingBlobWithLength:
		w.AddImport("io", "smithyio")
		w.Write("if %s != nil {", field)
		setContentType(w, mediaType(m, blobContentType))
		w.Write("body := smithyio.NewSeekableBytesReader(%s)", field)
		w.Write("end, err := body.Seek(0, io.SeekEnd)")
		w.Write("if err != nil {\nreturn nil, &smithy.SerializationError{Err: err}\n}")
		w.Write("if _, err := body.Seek(0, io.SeekStart); err != nil {\nreturn nil, &smithy.SerializationError{Err: err}\n}")
		w.Write("contentLength = end")
		setStream(w, "body")
		w.Write("}")

	case codegen.PayloadStreamingBlob:
		w.Write("if %s != nil {", field)
		setContentType(w, mediaType(m, blobContentType))
		setStream(w, field)
		w.Write("}")

	case codegen.PayloadBlob:
		w.AddImport("bytes")
		w.Write("if %s != nil {", field)
		setContentType(w, mediaType(m, blobContentType))
		w.Write("contentLength = int64(len(%s))", field)
		setStream(w, "bytes.NewReader("+field+")")
		w.Write("}")

	case codegen.PayloadString:
		w.AddImport("bytes")
		content := "[]byte(*" + field + ")"
		if m.Type() == smithy.ShapeTypeEnum {
			w.Write("if len(%s) != 0 {", field)
			content = "[]byte(string(" + field + "))"
		} else {
			w.Write("if %s != nil {", field)
		}
		setContentType(w, mediaType(m, stringContentType))
		w.Write("content := %s", content)
		w.Write("contentLength = int64(len(content))")
		setStream(w, "bytes.NewReader(content)")
		w.Write("}")

	case codegen.PayloadStructure:
		w.AddImport("bytes")
		setContentType(w, h.DocumentContentType())
		w.Write("if %s != nil {", field)
		w.Write("codec := %s", h.codec(w, false))
		w.Write("content := codec.Serialize(%s, %s)", c.Symbols.SchemaName(m), field)
		w.Write("contentLength = int64(len(content))")
		setStream(w, "bytes.NewReader(content)")
		w.Write("} else {")
		w.Write("contentLength = 2")
		setStream(w, "bytes.NewReader([]byte(\"{}\"))")
		w.Write("}")

	case codegen.PayloadUnion:
		w.AddImport("bytes")
		w.Write("if %s != nil {", field)
		setContentType(w, h.DocumentContentType())
		w.Write("codec := %s", h.codec(w, false))
		w.Write("content := codec.Serialize(%s, %s)", c.Symbols.SchemaName(m), field)
		w.Write("contentLength = int64(len(content))")
		setStream(w, "bytes.NewReader(content)")
		w.Write("}")

	case codegen.PayloadDocument:
		w.AddImport("bytes")
		w.Write("if %s != nil {", field)
		setContentType(w, h.DocumentContentType())
		w.Write("codec := %s", h.codec(w, false))
		w.Write("ss := codec.Serializer()")
		w.Write("ss.WriteDocument(nil, %s)", field)
		w.Write("content := ss.Bytes()")
		w.Write("contentLength = int64(len(content))")
		setStream(w, "bytes.NewReader(content)")
		w.Write("}")

	default:
		return errors.Newf("payload member %s has no payload kind", m.MemberName())
	}
	return nil
}

// readBody emits the declaration of body. Error responses reuse the body
// already parsed by the error resolver when there is one.
func readBody(c *codegen.BodyContext) {
	w := c.Writer
	w.AddImport("io", "smithy")
	if c.Error {
		w.AddImport("restjson")
		w.Write("var body []byte")
		w.Write("var err error")
		w.Write("if parsedBody == nil {")
		w.Write("body, err = io.ReadAll(response.Body)")
		w.Write("} else {")
		w.Write("body, err = restjson.EncodeParsedBody(parsedBody)")
		w.Write("}")
	} else {
		w.Write("body, err := io.ReadAll(response.Body)")
	}
	w.Write("if err != nil {")
	w.Write("%s&smithy.DeserializationError{Err: err}", c.Fail)
	w.Write("}")
}

func decodeFailed(c *codegen.BodyContext) {
	c.Writer.Write("%s&smithy.DeserializationError{Err: err, Snapshot: body}", c.Fail)
}

// DeserializeDocumentBody emits the decoding of the JSON document into the
// output. An empty body leaves every member unset.
func (h *Hooks) DeserializeDocumentBody(c *codegen.BodyContext) error {
	w := c.Writer
	readBody(c)
	w.Write("if len(body) != 0 {")
	w.Write("codec := %s", h.codec(w, true))
	w.Write("if err := codec.Deserialize(body, %s); err != nil {", c.Target)
	decodeFailed(c)
	w.Write("}")
	w.Write("}")
	return nil
}

// DeserializePayloadBody emits the reading of the member bound to the
// payload. Streams are handed the response body unread.
func (h *Hooks) DeserializePayloadBody(c *codegen.BodyContext) error {
	w := c.Writer
	m := c.Plan.Payload.Member
	field := c.Target + "." + c.Symbols.MemberName(m)

	switch c.Plan.PayloadKind {
	case codegen.PayloadEventStream:
		return nil
	case codegen.PayloadStreamingBlob, codegen.PayloadStreamingBlobWithLength:
		w.Write("%s = response.Body", field)
		return nil
	}

	readBody(c)
	w.Write("if len(body) != 0 {")
	switch c.Plan.PayloadKind {
	case codegen.PayloadBlob:
		w.Write("%s = body", field)

	case codegen.PayloadString:
		if m.Type() == smithy.ShapeTypeEnum {
			w.Write("%s = %s(string(body))", field, c.Symbols.TypeName(m))
		} else {
			w.AddImport("ptr")
			w.Write("%s = ptr.String(string(body))", field)
		}

	case codegen.PayloadStructure:
		w.Write("codec := %s", h.codec(w, false))
		w.Write("v := &%s{}", c.Symbols.TypeName(m))
		w.Write("if err := codec.Deserialize(body, v); err != nil {")
		decodeFailed(c)
		w.Write("}")
		w.Write("%s = v", field)

	case codegen.PayloadUnion:
		w.Write("codec := %s", h.codec(w, false))
		w.Write("v, err := Deserialize%s(codec.Deserializer(body))", c.Symbols.TypeName(m))
		w.Write("if err != nil {")
		decodeFailed(c)
		w.Write("}")
		w.Write("%s = v", field)

	case codegen.PayloadDocument:
		w.Write("codec := %s", h.codec(w, false))
		w.Write("var v any")
		w.Write("if err := codec.Deserializer(body).ReadDocument(nil, &v); err != nil {")
		decodeFailed(c)
		w.Write("}")
		w.Write("%s = v", field)

	default:
		return errors.Newf("payload member %s has no payload kind", m.MemberName())
	}
	w.Write("}")
	return nil
}

// ResolveErrorCodeAndMessage emits the call reading the error code and
// message from the X-Amzn-Errortype header or the JSON body.
func (*Hooks) ResolveErrorCodeAndMessage(w *codegen.Writer, canReadBody bool) {
	w.AddImport("restjson")
	w.Write("code, message, parsedBody, err := restjson.GetErrorInfo(response, %t)", canReadBody)
}

// WrapEventStream emits newEventStream<Operation>, which wraps the request
// and response bodies in the event stream kind of the operation.
func (h *Hooks) WrapEventStream(c *codegen.EventStreamContext) error {
	w := c.Writer
	name := c.Symbols.OperationName(c.Operation)
	output := "*" + c.Symbols.OutputName(c.Operation)

	var result string
	switch c.Kind {
	case codegen.EventStreamDuplex:
		result = fmt.Sprintf("eventstream.DuplexEventStream[%s, %s]", output, c.EventUnion())
	case codegen.EventStreamInput:
		result = fmt.Sprintf("eventstream.InputEventStream[%s]", output)
	default:
		result = fmt.Sprintf("eventstream.OutputEventStream[%s, %s]", output, c.EventUnion())
	}

	w.AddImport("eventstream", "smithyhttp")
	w.Write("func newEventStream%s(output %s, request *smithyhttp.Request, response *smithyhttp.Response) (*%s, error) {",
		name, output, result)
	w.Write("codec := %s", h.codec(w, false))

	if c.Kind != codegen.EventStreamOutput {
		w.AddImport("fmt", "io")
		w.Write("writer, ok := request.GetStream().(io.WriteCloser)")
		w.Write("if !ok {\nreturn nil, fmt.Errorf(\"request stream of %s is not writable\")\n}", name)
	}

	switch c.Kind {
	case codegen.EventStreamDuplex:
		w.Write("return eventstream.NewDuplexEventStream[%s, %s](codec, output, writer, response.Body, deserializeEvent%s), nil",
			output, c.EventUnion(), name)
	case codegen.EventStreamInput:
		w.Write("return eventstream.NewInputEventStream[%s](codec, output, writer), nil", output)
	default:
		w.Write("return eventstream.NewOutputEventStream[%s, %s](codec, output, response.Body, deserializeEvent%s), nil",
			output, c.EventUnion(), name)
	}
	w.Write("}\n")
	return nil
}

// DefaultSkipList returns the compliance cases generated clients do not
// pass: NaN inputs, traits left out of the protocol layer, request
// compression, client default values, and empty prefix or null headers
// that net/http drops.
func DefaultSkipList() codegen.SkipList {
	return codegen.NewSkipList(
		"RestJsonSupportsNaNFloatHeaderOutputs",
		"RestJsonSupportsNaNFloatInputs",

		"RestJsonQueryIdempotencyTokenAutoFill",
		"RestJsonHttpChecksumRequired",
		"RestJsonEndpointTraitWithHostLabel",
		"RestJsonEndpointTrait",

		"SDKAppliedContentEncoding_restJson1",
		"SDKAppendedGzipAfterProvidedEncoding_restJson1",

		"RestJsonDeserializeIgnoreType",

		"RestJsonClientPopulatesDefaultValuesInInput",
		"RestJsonClientSkipsTopLevelDefaultValuesInInput",
		"RestJsonClientUsesExplicitlyProvidedMemberValuesOverDefaults",
		"RestJsonClientIgnoresNonTopLevelDefaultsOnMembersWithClientOptional",
		"RestJsonClientPopulatesDefaultsValuesWhenMissingInResponse",
		"RestJsonClientIgnoresDefaultValuesIfMemberValuesArePresentInResponse",
		"RestJsonClientPopulatesNestedDefaultsWhenMissingInResponseBody",

		"RestJsonHttpPrefixEmptyHeaders",
		"RestJsonNullAndEmptyHeaders",
		"HttpPrefixEmptyHeaders",
	)
}
