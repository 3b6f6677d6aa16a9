package codegen

import (
	"net/http"
	"sort"

	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
	"github.com/aws/smithy-go-codegen/traits"
)

// ProtocolGenerator emits the protocol layer of a generated client for one
// wire protocol. Implementations write into the Writer they are handed and
// must not retain it; the generator calls them concurrently for different
// operations.
type ProtocolGenerator interface {
	// Protocol returns the shape ID of the protocol trait, which the service
	// must carry.
	Protocol() string

	GenerateRequestSerializer(gc *GenerationContext, op *smithy.Operation, w *Writer) error
	GenerateResponseDeserializer(gc *GenerationContext, op *smithy.Operation, w *Writer) error
	GenerateErrorDispatcher(gc *GenerationContext, op *smithy.Operation, w *Writer) error
	GenerateErrorDeserializer(gc *GenerationContext, shape *smithy.Schema, w *Writer) error

	// GenerateEventStream writes nothing for operations without an event
	// stream.
	GenerateEventStream(gc *GenerationContext, op *smithy.Operation, w *Writer) error

	// GenerateProtocolTests writes the compliance test functions of op and
	// of the errors first referenced by op.
	GenerateProtocolTests(gc *GenerationContext, op *smithy.Operation, w *Writer) error

	// UnsupportedProtocolTests lists the fixtures GenerateProtocolTests
	// would fail on because emitted code cannot express them.
	UnsupportedProtocolTests(gc *GenerationContext) ([]string, error)
}

// BodyContext is the state body hooks emit against.
type BodyContext struct {
	*GenerationContext

	Writer *Writer

	// Operation is nil for error deserializers, which are shared between
	// operations.
	Operation *smithy.Operation
	Plan      *BindingPlan

	// Target is the variable holding the input or output structure.
	Target string

	// Fail prefixes the value of a failing return statement in the emitted
	// function, e.g. "return nil, ".
	Fail string

	// Error is set for error responses, whose body may already be parsed
	// into parsedBody.
	Error bool

	// DefaultBody is set when a request without a document is sent with
	// the protocol's default body.
	DefaultBody bool
}

// HTTPBindingHooks are the protocol specific parts of an HTTP binding
// protocol.
type HTTPBindingHooks interface {
	Protocol() string

	// DocumentContentType is the media type of document bodies.
	DocumentContentType() string

	// DocumentTimestampFormat is the timestamp format of document bodies
	// and events when a member has no timestampFormat trait.
	DocumentTimestampFormat() smithytime.Format

	ShouldWriteDefaultBody(op *smithy.Operation) bool

	// SerializeDocumentBody emits the request body for the document bound
	// members, which may be none.
	SerializeDocumentBody(c *BodyContext) error
	SerializePayloadBody(c *BodyContext) error
	DeserializeDocumentBody(c *BodyContext) error
	DeserializePayloadBody(c *BodyContext) error

	// ResolveErrorCodeAndMessage emits the declaration of code, message,
	// parsedBody and err from the error response.
	ResolveErrorCodeAndMessage(w *Writer, canReadBody bool)

	WrapEventStream(c *EventStreamContext) error

	// SkipList is the set of compliance fixtures never emitted.
	SkipList() SkipList
}

// HTTPBindingProtocolGenerator implements the binding resolution and
// dispatch shared by every HTTP binding protocol, delegating bodies, error
// resolution and event streams to its hooks.
type HTTPBindingProtocolGenerator struct {
	Hooks HTTPBindingHooks
}

var _ ProtocolGenerator = (*HTTPBindingProtocolGenerator)(nil)

// NewHTTPBindingProtocolGenerator returns a generator for hooks.
func NewHTTPBindingProtocolGenerator(hooks HTTPBindingHooks) *HTTPBindingProtocolGenerator {
	return &HTTPBindingProtocolGenerator{Hooks: hooks}
}

// Protocol returns the protocol of the hooks.
func (g *HTTPBindingProtocolGenerator) Protocol() string {
	return g.Hooks.Protocol()
}

// DefaultBodyForMethod reports whether requests of the HTTP method carry a
// body when nothing is bound to it.
func DefaultBodyForMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

func httpTrait(op *smithy.Operation) (*traits.HTTP, error) {
	t, ok := smithy.SchemaTrait[*traits.HTTP](op.Schema)
	if !ok {
		return nil, errors.Mark(errors.Newf("operation %s has no http trait", op.ID()), ErrInvalidModel)
	}
	return t, nil
}

// GenerateRequestSerializer emits serializeOp<Operation>, which builds the
// HTTP request of an operation input.
func (g *HTTPBindingProtocolGenerator) GenerateRequestSerializer(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) error {
	route, err := httpTrait(op)
	if err != nil {
		return err
	}
	plan, err := ClassifyRequest(op)
	if err != nil {
		return err
	}

	name := gc.Symbols.OperationName(op)
	input := gc.Symbols.InputName(op)
	w.AddImport("smithy", "smithyhttp", "httpbinding")

	w.Write("func serializeOp%s(input *%s) (*smithyhttp.Request, error) {", name, input)
	w.Write("if input == nil {\ninput = &%s{}\n}", input)
	w.Write("request := smithyhttp.NewRequest(%q, %q)", route.Method, route.URI)
	w.Write("encoder, err := httpbinding.NewEncoder(request.URL.Path, request.URL.RawQuery, request.Header)")
	w.Write("if err != nil {\nreturn nil, &smithy.SerializationError{Err: err}\n}")
	w.Write("contentLength := int64(-1)")

	c := &BodyContext{
		GenerationContext: gc,
		Writer:            w,
		Operation:         op,
		Plan:              plan,
		Target:            "input",
		Fail:              "return nil, ",
		DefaultBody:       g.Hooks.ShouldWriteDefaultBody(op),
	}
	if err := writeRequestBindings(c); err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}
	if plan.Payload != nil {
		err = g.Hooks.SerializePayloadBody(c)
	} else {
		err = g.Hooks.SerializeDocumentBody(c)
	}
	if err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}

	w.Write("built, err := encoder.Encode(request.Request)")
	w.Write("if err != nil {\nreturn nil, &smithy.SerializationError{Err: err}\n}")
	w.Write("request.Request = built")
	w.Write("request.ContentLength = contentLength")
	w.Write("return request, nil")
	w.Write("}\n")
	return nil
}

// GenerateResponseDeserializer emits deserializeOp<Operation>, which reads
// the output of a successful response and dispatches other responses to
// the error dispatcher.
func (g *HTTPBindingProtocolGenerator) GenerateResponseDeserializer(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) error {
	plan, err := ClassifyResponse(op.Output)
	if err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}

	name := gc.Symbols.OperationName(op)
	output := gc.Symbols.OutputName(op)
	w.AddImport("smithyhttp")

	w.Write("func deserializeOp%s(response *smithyhttp.Response) (*%s, error) {", name, output)
	w.Write("if response.StatusCode < 200 || response.StatusCode >= 300 {")
	w.Write("return nil, deserializeOpError%s(response)", name)
	w.Write("}")
	w.Write("output := &%s{}", output)

	c := &BodyContext{
		GenerationContext: gc,
		Writer:            w,
		Operation:         op,
		Plan:              plan,
		Target:            "output",
		Fail:              "return nil, ",
	}
	if err := g.writeResponse(c); err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}

	w.Write("return output, nil")
	w.Write("}\n")
	return nil
}

func (g *HTTPBindingProtocolGenerator) writeResponse(c *BodyContext) error {
	if err := writeResponseBindings(c); err != nil {
		return err
	}
	switch {
	case c.Plan.Payload != nil:
		return g.Hooks.DeserializePayloadBody(c)
	case len(c.Plan.Document) != 0:
		return g.Hooks.DeserializeDocumentBody(c)
	}
	return nil
}

// CanReadErrorBody reports whether the error resolver may consume the body
// of an error response of op. It cannot when an error binds its body as a
// raw payload, which its deserializer reads itself.
func CanReadErrorBody(op *smithy.Operation) (bool, error) {
	for _, e := range op.Errors {
		plan, err := ClassifyResponse(e)
		if err != nil {
			return false, err
		}
		switch plan.PayloadKind {
		case PayloadBlob, PayloadString, PayloadStreamingBlob, PayloadStreamingBlobWithLength:
			return false, nil
		}
	}
	return true, nil
}

// GenerateErrorDispatcher emits deserializeOpError<Operation>, which
// resolves the error code of a response and deserializes the matching
// modeled error.
func (g *HTTPBindingProtocolGenerator) GenerateErrorDispatcher(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) error {
	canReadBody, err := CanReadErrorBody(op)
	if err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}

	errs := append([]*smithy.Schema(nil), op.Errors...)
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].ID().Name < errs[j].ID().Name
	})

	w.AddImport("smithy", "smithyhttp")
	w.Write("func deserializeOpError%s(response *smithyhttp.Response) error {", gc.Symbols.OperationName(op))
	g.Hooks.ResolveErrorCodeAndMessage(w, canReadBody)
	w.Write("if err != nil {\nreturn err\n}")
	if len(errs) == 0 {
		w.Write("_ = parsedBody")
	}
	w.Write("switch code {")
	for _, e := range errs {
		w.Write("case %q:", e.ID().Name)
		w.Write("return deserializeError%s(response, parsedBody)", gc.Symbols.TypeName(e))
	}
	w.Write("default:")
	w.Write("return &smithyhttp.ResponseError{Response: response, Err: &smithy.GenericAPIError{Code: code, Message: message}}")
	w.Write("}")
	w.Write("}\n")
	return nil
}

// GenerateErrorDeserializer emits deserializeError<Error>. parsedBody is
// the body already parsed by the error resolver, nil when it was not read.
func (g *HTTPBindingProtocolGenerator) GenerateErrorDeserializer(
	gc *GenerationContext, shape *smithy.Schema, w *Writer,
) error {
	if !smithy.HasSchemaTrait[*traits.Error](shape) {
		return errors.Mark(errors.Newf("%s is bound as an error but has no error trait", shape.ID()), ErrInvalidModel)
	}
	plan, err := ClassifyResponse(shape)
	if err != nil {
		return err
	}

	name := gc.Symbols.TypeName(shape)
	w.AddImport("smithyhttp")
	w.Write("func deserializeError%s(response *smithyhttp.Response, parsedBody map[string]any) error {", name)
	w.Write("output := &%s{}", name)

	c := &BodyContext{
		GenerationContext: gc,
		Writer:            w,
		Plan:              plan,
		Target:            "output",
		Fail:              "return ",
		Error:             true,
	}
	if err := g.writeResponse(c); err != nil {
		return errors.Wrapf(err, "error %s", shape.ID())
	}

	w.Write("return output")
	w.Write("}\n")
	return nil
}

func sortOperations(ops []*smithy.Operation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].ID().String() < ops[j].ID().String()
	})
}
