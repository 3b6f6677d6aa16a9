package codegen

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
	"github.com/samber/lo"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/logging"
	smithytesting "github.com/aws/smithy-go-codegen/testing"
	"github.com/aws/smithy-go-codegen/traits"
)

// SkipList is a set of compliance fixture IDs that are never emitted.
type SkipList map[string]struct{}

// NewSkipList returns a SkipList of ids.
func NewSkipList(ids ...string) SkipList {
	s := make(SkipList, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is skipped.
func (s SkipList) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// With returns a copy of s that also skips ids.
func (s SkipList) With(ids ...string) SkipList {
	out := make(SkipList, len(s)+len(ids))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the skipped IDs sorted.
func (s SkipList) IDs() []string {
	ids := lo.Keys(s)
	sort.Strings(ids)
	return ids
}

// FixtureFilter selects the compliance fixtures of a protocol that apply to
// clients. Fixtures are matched as JSON objects.
type FixtureFilter struct {
	expr *jmespath.JMESPath
}

// NewFixtureFilter returns a filter for protocol, narrowed by the optional
// JMESPath expression extra.
func NewFixtureFilter(protocol, extra string) (*FixtureFilter, error) {
	expr := fmt.Sprintf("protocol == '%s' && (appliesTo == null || appliesTo == 'client')", protocol)
	if len(strings.TrimSpace(extra)) != 0 {
		expr = "(" + expr + ") && (" + extra + ")"
	}

	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "compile fixture filter %q", expr)
	}
	return &FixtureFilter{expr: compiled}, nil
}

// Match reports whether fixture is selected.
func (f *FixtureFilter) Match(fixture any) (bool, error) {
	raw, err := gojson.Marshal(fixture)
	if err != nil {
		return false, errors.Wrap(err, "encode fixture")
	}
	var doc map[string]any
	if err := gojson.Unmarshal(raw, &doc); err != nil {
		return false, errors.Wrap(err, "decode fixture")
	}

	v, err := f.expr.Search(doc)
	if err != nil {
		return false, errors.Wrap(err, "evaluate fixture filter")
	}
	ok, _ := v.(bool)
	return ok, nil
}

// protocolTestName returns the suffix of compliance test names for protocol.
func protocolTestName(gc *GenerationContext, protocol string) string {
	return gc.Symbols.Identifier(smithy.ParseShapeID(protocol).Name)
}

// ProtocolTestFilename returns the file compliance tests of protocol are
// written to.
func ProtocolTestFilename(protocol string) string {
	return "protocol_" + strings.ToLower(smithy.ParseShapeID(protocol).Name) + "_test.go"
}

// errorTestOwner returns, for each error with response fixtures, the
// first operation in sorted order that references it. Error fixtures are
// emitted once, with that operation's dispatcher.
func errorTestOwner(gc *GenerationContext) map[smithy.ShapeID]smithy.ShapeID {
	owners := map[smithy.ShapeID]smithy.ShapeID{}
	for _, op := range gc.Operations() {
		for _, e := range op.Errors {
			if _, ok := owners[e.ID()]; !ok {
				owners[e.ID()] = op.ID()
			}
		}
	}
	return owners
}

type protocolTestWriter struct {
	gc     *GenerationContext
	w      *Writer
	op     *smithy.Operation
	skip   SkipList
	filter *FixtureFilter
	logger logging.Logger
	suffix string

	// lw collects the imports of the fixture being rendered.
	lw *Writer

	// unsupported, when set, collects the IDs of fixtures literal cannot
	// render instead of failing on them.
	unsupported *[]string
}

// GenerateProtocolTests emits the request and response compliance tests of
// op, and the response tests of errors op is the first to reference.
// Skipped fixtures and fixtures of other protocols are left out entirely; an
// operation without any remaining fixture gets no test function. A fixture
// that emitted code cannot express fails generation unless it is skipped.
func (g *HTTPBindingProtocolGenerator) GenerateProtocolTests(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) error {
	t, err := g.newProtocolTestWriter(gc, op, w)
	if err != nil {
		return err
	}
	return t.write()
}

// UnsupportedProtocolTests returns the sorted IDs of the selected, not
// skipped fixtures of the service that emitted code cannot express.
// GenerateProtocolTests fails on each of them until it is skipped.
func (g *HTTPBindingProtocolGenerator) UnsupportedProtocolTests(gc *GenerationContext) ([]string, error) {
	agc := *gc
	agc.Logger = logging.Noop{}

	var ids []string
	for _, op := range agc.Operations() {
		t, err := g.newProtocolTestWriter(&agc, op, NewWriter(gc.Settings.Package))
		if err != nil {
			return nil, err
		}
		t.unsupported = &ids
		if err := t.write(); err != nil {
			return nil, err
		}
	}
	ids = lo.Uniq(ids)
	sort.Strings(ids)
	return ids, nil
}

func (g *HTTPBindingProtocolGenerator) newProtocolTestWriter(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) (*protocolTestWriter, error) {
	filter, err := NewFixtureFilter(g.Protocol(), gc.Settings.TestFilter)
	if err != nil {
		return nil, err
	}
	return &protocolTestWriter{
		gc:     gc,
		w:      w,
		op:     op,
		skip:   g.Hooks.SkipList().With(gc.Settings.SkipTests...),
		filter: filter,
		logger: gc.Logger,
		suffix: protocolTestName(gc, g.Protocol()),
	}, nil
}

func (t *protocolTestWriter) write() error {
	op := t.op
	if err := t.writeRequestTests(); err != nil {
		return errors.Wrapf(err, "operation %s request tests", op.ID())
	}
	if err := t.writeResponseTests(); err != nil {
		return errors.Wrapf(err, "operation %s response tests", op.ID())
	}

	owners := errorTestOwner(t.gc)
	for _, e := range op.Errors {
		if owners[e.ID()] != op.ID() {
			continue
		}
		if err := t.writeErrorTests(e); err != nil {
			return errors.Wrapf(err, "error %s response tests", e.ID())
		}
	}
	return nil
}

// selected reports whether a fixture is emitted, logging the reason when it
// is not.
func (t *protocolTestWriter) selected(id string, fixture any) (bool, error) {
	ok, err := t.filter.Match(fixture)
	if err != nil {
		return false, errors.Wrapf(err, "fixture %s", id)
	}
	if !ok {
		return false, nil
	}
	if t.skip.Contains(id) {
		t.logger.Logf(logging.Warn, "skipping protocol test %s of %s", id, t.op.ID())
		return false, nil
	}
	return true, nil
}

// literal renders the params of a fixture as a pointer to the structure
// name, into a Writer holding the imports it needs. A fixture needing a
// feature emitted code does not support is an error; when auditing, it is
// recorded and left out instead.
func (t *protocolTestWriter) literal(id string, s *smithy.Schema, name string, params map[string]any) (string, *Writer, error) {
	t.lw = NewWriter("")
	defer func() { t.lw = nil }()

	lit, err := t.structLiteral(s, name, params, false)
	if errors.Is(err, ErrUnsupported) {
		if t.unsupported != nil {
			*t.unsupported = append(*t.unsupported, id)
			return "", nil, nil
		}
		return "", nil, errors.Wrapf(err, "fixture %s of %s cannot be generated, add it to skipTests", id, t.op.ID())
	}
	if err != nil {
		return "", nil, errors.Wrapf(err, "fixture %s", id)
	}
	return lit, t.lw, nil
}

func (t *protocolTestWriter) writeRequestTests() error {
	tests, ok := smithy.SchemaTrait[*traits.HTTPRequestTests](t.op.Schema)
	if !ok {
		return nil
	}

	cases := NewWriter("")
	for _, fixture := range tests.Cases {
		ok, err := t.selected(fixture.ID, fixture)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		params, cw, err := t.literal(fixture.ID, t.op.Input, t.gc.Symbols.InputName(t.op), fixture.Params)
		if err != nil {
			return err
		}
		if cw == nil {
			continue
		}
		t.writeRequestCase(cw, &fixture, params)
		cases.Append(cw)
	}
	if cases.Len() == 0 {
		return nil
	}

	w := t.w
	name := t.gc.Symbols.OperationName(t.op)
	w.AddImport("context", "io", "net/http", "testing", "smithytesting")
	w.Write("func TestClient_%s_%sSerialize(t *testing.T) {", name, t.suffix)
	w.Write("cases := map[string]struct {")
	w.Write("Params *%s", t.gc.Symbols.InputName(t.op))
	w.Write("ExpectMethod string")
	w.Write("ExpectURIPath string")
	w.Write("ExpectQuery []smithytesting.QueryItem")
	w.Write("RequireQuery []string")
	w.Write("ForbidQuery []string")
	w.Write("ExpectHeader http.Header")
	w.Write("RequireHeader []string")
	w.Write("ForbidHeader []string")
	w.Write("BodyMediaType string")
	w.Write("ExpectBody []byte")
	w.Write("}{")
	w.Append(cases)
	w.Write("}")
	w.Write("for name, c := range cases {")
	w.Write("t.Run(name, func(t *testing.T) {")
	w.Write("request, err := serializeOp%s(c.Params)", name)
	w.Write("if err != nil {\nt.Fatalf(\"expect no error, got %v\", err)\n}")
	w.Write("actual := request.Build(context.Background())")
	w.Write("if e, a := c.ExpectMethod, actual.Method; e != a {\nt.Errorf(\"expect %v method, got %v\", e, a)\n}")
	w.Write("if e, a := c.ExpectURIPath, actual.URL.EscapedPath(); e != a {\nt.Errorf(\"expect %v path, got %v\", e, a)\n}")
	w.Write("smithytesting.AssertHasQuery(t, c.ExpectQuery, actual.URL.RawQuery)")
	w.Write("smithytesting.AssertHasQueryKeys(t, c.RequireQuery, actual.URL.RawQuery)")
	w.Write("smithytesting.AssertNotHaveQueryKeys(t, c.ForbidQuery, actual.URL.RawQuery)")
	w.Write("smithytesting.AssertHasHeader(t, c.ExpectHeader, actual.Header)")
	w.Write("smithytesting.AssertHasHeaderKeys(t, c.RequireHeader, actual.Header)")
	w.Write("smithytesting.AssertNotHaveHeaderKeys(t, c.ForbidHeader, actual.Header)")
	w.Write("if c.ExpectBody != nil {")
	w.Write("body, err := io.ReadAll(actual.Body)")
	w.Write("if err != nil {\nt.Fatalf(\"expect no error reading body, got %v\", err)\n}")
	w.Write("smithytesting.AssertBodyEqual(t, c.BodyMediaType, c.ExpectBody, body)")
	w.Write("}")
	w.Write("})")
	w.Write("}")
	w.Write("}\n")
	return nil
}

func (t *protocolTestWriter) writeRequestCase(w *Writer, fixture *traits.HTTPRequestTestCase, params string) {
	writeDocumentation(w, fixture.Documentation)
	w.Write("%q: {", fixture.ID)
	w.Write("Params: %s,", params)
	w.Write("ExpectMethod: %q,", fixture.Method)
	w.Write("ExpectURIPath: %q,", fixture.URI)
	if len(fixture.QueryParams) != 0 {
		w.Write("ExpectQuery: []smithytesting.QueryItem{")
		for _, q := range fixture.QueryParams {
			for _, item := range smithytesting.ParseRawQuery(q) {
				w.Write("{Key: %q, Value: %q},", item.Key, item.Value)
			}
		}
		w.Write("},")
	}
	writeStrings(w, "RequireQuery", fixture.RequireQueryParams)
	writeStrings(w, "ForbidQuery", fixture.ForbidQueryParams)
	writeHeaders(w, "ExpectHeader", fixture.Headers)
	writeStrings(w, "RequireHeader", fixture.RequireHeaders)
	writeStrings(w, "ForbidHeader", fixture.ForbidHeaders)
	writeBody(w, "ExpectBody", fixture.BodyMediaType, fixture.Body)
	w.Write("},")
}

func (t *protocolTestWriter) writeResponseTests() error {
	tests, ok := smithy.SchemaTrait[*traits.HTTPResponseTests](t.op.Schema)
	if !ok {
		return nil
	}

	cases := NewWriter("")
	for _, fixture := range tests.Cases {
		ok, err := t.selected(fixture.ID, fixture)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		expect, cw, err := t.literal(fixture.ID, t.op.Output, t.gc.Symbols.OutputName(t.op), fixture.Params)
		if err != nil {
			return err
		}
		if cw == nil {
			continue
		}
		writeResponseCase(cw, &fixture, "ExpectResult", expect)
		cases.Append(cw)
	}
	if cases.Len() == 0 {
		return nil
	}

	w := t.w
	name := t.gc.Symbols.OperationName(t.op)
	t.writeResponseTestHead(fmt.Sprintf("TestClient_%s_%sDeserialize", name, t.suffix),
		"ExpectResult *"+t.gc.Symbols.OutputName(t.op), cases)
	w.Write("result, err := deserializeOp%s(response)", name)
	w.Write("if err != nil {\nt.Fatalf(\"expect no error, got %v\", err)\n}")
	t.writeDrainStreams("result", t.op.Output)
	w.Write("if err := smithytesting.CompareValues(c.ExpectResult, result); err != nil {")
	w.Write("t.Errorf(\"expect result match\\n%v\", err)")
	w.Write("}")
	w.Write("})")
	w.Write("}")
	w.Write("}\n")
	return nil
}

func (t *protocolTestWriter) writeErrorTests(e *smithy.Schema) error {
	tests, ok := smithy.SchemaTrait[*traits.HTTPResponseTests](e)
	if !ok {
		return nil
	}

	cases := NewWriter("")
	for _, fixture := range tests.Cases {
		ok, err := t.selected(fixture.ID, fixture)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		expect, cw, err := t.literal(fixture.ID, e, t.gc.Symbols.TypeName(e), fixture.Params)
		if err != nil {
			return err
		}
		if cw == nil {
			continue
		}
		writeResponseCase(cw, &fixture, "ExpectError", expect)
		cases.Append(cw)
	}
	if cases.Len() == 0 {
		return nil
	}

	w := t.w
	name := t.gc.Symbols.OperationName(t.op)
	errName := t.gc.Symbols.TypeName(e)
	w.AddImport("errors")
	t.writeResponseTestHead(fmt.Sprintf("TestClient_%s_%s_%sDeserialize", name, errName, t.suffix),
		"ExpectError *"+errName, cases)
	w.Write("err := deserializeOpError%s(response)", name)
	w.Write("var actual *%s", errName)
	w.Write("if !errors.As(err, &actual) {\nt.Fatalf(\"expect %T error, got %v\", actual, err)\n}")
	t.writeDrainStreams("actual", e)
	w.Write("if err := smithytesting.CompareValues(c.ExpectError, actual); err != nil {")
	w.Write("t.Errorf(\"expect error match\\n%v\", err)")
	w.Write("}")
	w.Write("})")
	w.Write("}")
	w.Write("}\n")
	return nil
}

func (t *protocolTestWriter) writeResponseTestHead(fn, expect string, cases *Writer) {
	w := t.w
	w.AddImport("bytes", "io", "net/http", "testing", "smithyhttp", "smithytesting")
	w.Write("func %s(t *testing.T) {", fn)
	w.Write("cases := map[string]struct {")
	w.Write("StatusCode int")
	w.Write("Header http.Header")
	w.Write("BodyMediaType string")
	w.Write("Body []byte")
	w.Write(expect)
	w.Write("}{")
	w.Append(cases)
	w.Write("}")
	w.Write("for name, c := range cases {")
	w.Write("t.Run(name, func(t *testing.T) {")
	w.Write("response := &smithyhttp.Response{Response: &http.Response{")
	w.Write("StatusCode: c.StatusCode,")
	w.Write("Header: c.Header.Clone(),")
	w.Write("Body: io.NopCloser(bytes.NewReader(c.Body)),")
	w.Write("}}")
	w.Write("if response.Header == nil {\nresponse.Header = http.Header{}\n}")
}

// writeDrainStreams replaces the streaming members of v with readers over
// their content, so they compare equal to the expected readers.
func (t *protocolTestWriter) writeDrainStreams(v string, shape *smithy.Schema) {
	w := t.w
	for _, m := range shape.Members() {
		if m.Type() != smithy.ShapeTypeBlob || !smithy.HasSchemaTrait[*traits.Streaming](m) {
			continue
		}
		field := v + "." + t.gc.Symbols.MemberName(m)
		w.Write("if %s != nil {", field)
		w.Write("content, err := io.ReadAll(%s)", field)
		w.Write("if err != nil {\nt.Fatalf(\"expect no error reading stream, got %v\", err)\n}")
		w.Write("%s = bytes.NewReader(content)", field)
		w.Write("}")
	}
}

func writeResponseCase(w *Writer, fixture *traits.HTTPResponseTestCase, field, expect string) {
	writeDocumentation(w, fixture.Documentation)
	w.Write("%q: {", fixture.ID)
	w.Write("StatusCode: %d,", fixture.Code)
	writeHeaders(w, "Header", fixture.Headers)
	writeBody(w, "Body", fixture.BodyMediaType, fixture.Body)
	w.Write("%s: %s,", field, expect)
	w.Write("},")
}

func writeDocumentation(w *Writer, doc string) {
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		if line = strings.TrimSpace(line); len(line) != 0 {
			w.Write("// %s", line)
		}
	}
}

func writeStrings(w *Writer, field string, vs []string) {
	if len(vs) == 0 {
		return
	}
	quoted := lo.Map(vs, func(v string, _ int) string { return strconv.Quote(v) })
	w.Write("%s: []string{%s},", field, strings.Join(quoted, ", "))
}

func writeHeaders(w *Writer, field string, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	keys := lo.Keys(headers)
	sort.Strings(keys)

	w.Write("%s: http.Header{", field)
	for _, k := range keys {
		w.Write("%q: []string{%q},", http.CanonicalHeaderKey(k), headers[k])
	}
	w.Write("},")
}

func writeBody(w *Writer, field, mediaType string, body *string) {
	if len(mediaType) != 0 {
		w.Write("BodyMediaType: %q,", mediaType)
	}
	if body == nil {
		return
	}
	if strings.Contains(*body, "`") || !strings.Contains(*body, "\n") {
		w.Write("%s: []byte(%s),", field, strconv.Quote(*body))
		return
	}
	w.Write("%s: []byte(`%s`),", field, *body)
}

// paramLiteral renders the fixture value v as a Go expression of the type
// shape s has. Elem selects the element form, used for list and map values
// and union variants, over the member form.
func (t *protocolTestWriter) paramLiteral(s *smithy.Schema, v any, elem bool) (string, error) {
	w := t.lw
	sym := t.gc.Symbols

	if v == nil {
		if s.Type() == smithy.ShapeTypeDocument {
			return "nil", nil
		}
		return "", errors.Mark(errors.Newf("null value for %s", s.ID()), ErrUnsupported)
	}

	switch s.Type() {
	case smithy.ShapeTypeStructure:
		fields, ok := v.(map[string]any)
		if !ok {
			return "", errors.Newf("expected object for %s, got %T", s.ID(), v)
		}
		return t.structLiteral(s, sym.TypeName(s), fields, elem)

	case smithy.ShapeTypeUnion:
		fields, ok := v.(map[string]any)
		if !ok || len(fields) != 1 {
			return "", errors.Newf("expected object with one member for union %s", s.ID())
		}
		if smithy.HasSchemaTrait[*traits.Streaming](s) {
			return "", errors.Mark(errors.Newf("event stream %s in fixture", s.ID()), ErrUnsupported)
		}
		for k, fv := range fields {
			m := s.Member(k)
			if m == nil {
				return "", errors.Newf("union %s has no member %s", s.ID(), k)
			}
			lit, err := t.paramLiteral(m, fv, true)
			if err != nil {
				return "", errors.Wrapf(err, "variant %s", k)
			}
			return fmt.Sprintf("&%s{Value: %s}", sym.UnionMemberName(s, m), lit), nil
		}

	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		items, ok := v.([]any)
		if !ok {
			return "", errors.Newf("expected array for %s, got %T", s.ID(), v)
		}
		t.addTypeImports(s)
		elems := make([]string, 0, len(items))
		for _, item := range items {
			lit, err := t.paramLiteral(s.Target().Member("member"), item, true)
			if err != nil {
				return "", err
			}
			elems = append(elems, lit)
		}
		return fmt.Sprintf("%s{%s}", sym.GoType(s, false), joinLiterals(elems)), nil

	case smithy.ShapeTypeMap:
		entries, ok := v.(map[string]any)
		if !ok {
			return "", errors.Newf("expected object for %s, got %T", s.ID(), v)
		}
		t.addTypeImports(s)
		keys := lo.Keys(entries)
		sort.Strings(keys)
		elems := make([]string, 0, len(keys))
		for _, k := range keys {
			lit, err := t.paramLiteral(s.Target().Member("value"), entries[k], true)
			if err != nil {
				return "", err
			}
			elems = append(elems, strconv.Quote(k)+": "+lit)
		}
		return fmt.Sprintf("%s{%s}", sym.GoType(s, false), joinLiterals(elems)), nil

	case smithy.ShapeTypeDocument:
		return t.documentLiteral(v)

	case smithy.ShapeTypeString:
		str, ok := v.(string)
		if !ok {
			return "", errors.Newf("expected string for %s, got %T", s.ID(), v)
		}
		return t.pointer("String", strconv.Quote(str), elem), nil

	case smithy.ShapeTypeEnum:
		str, ok := v.(string)
		if !ok {
			return "", errors.Newf("expected string for %s, got %T", s.ID(), v)
		}
		return fmt.Sprintf("%s(%q)", sym.TypeName(s), str), nil

	case smithy.ShapeTypeBlob:
		str, ok := v.(string)
		if !ok {
			return "", errors.Newf("expected string for %s, got %T", s.ID(), v)
		}
		if smithy.HasSchemaTrait[*traits.Streaming](s) {
			w.AddImport("bytes")
			return fmt.Sprintf("bytes.NewReader([]byte(%q))", str), nil
		}
		return fmt.Sprintf("[]byte(%q)", str), nil

	case smithy.ShapeTypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return "", errors.Newf("expected boolean for %s, got %T", s.ID(), v)
		}
		return t.pointer("Bool", strconv.FormatBool(b), elem), nil

	case smithy.ShapeTypeByte, smithy.ShapeTypeShort, smithy.ShapeTypeInteger, smithy.ShapeTypeLong:
		n, err := fixtureNumber(v)
		if err != nil {
			return "", errors.Wrapf(err, "%s", s.ID())
		}
		if _, err := strconv.ParseInt(n, 10, 64); err != nil {
			return "", errors.Newf("expected integer for %s, got %s", s.ID(), n)
		}
		helper := map[smithy.ShapeType]string{
			smithy.ShapeTypeByte:    "Int8",
			smithy.ShapeTypeShort:   "Int16",
			smithy.ShapeTypeInteger: "Int32",
			smithy.ShapeTypeLong:    "Int64",
		}[s.Type()]
		return t.pointer(helper, n, elem), nil

	case smithy.ShapeTypeIntEnum:
		n, err := fixtureNumber(v)
		if err != nil {
			return "", errors.Wrapf(err, "%s", s.ID())
		}
		return fmt.Sprintf("%s(%s)", sym.TypeName(s), n), nil

	case smithy.ShapeTypeFloat, smithy.ShapeTypeDouble:
		lit, err := t.floatLiteral(v)
		if err != nil {
			return "", errors.Wrapf(err, "%s", s.ID())
		}
		if s.Type() == smithy.ShapeTypeFloat {
			return t.pointer("Float32", "float32("+lit+")", elem), nil
		}
		return t.pointer("Float64", lit, elem), nil

	case smithy.ShapeTypeTimestamp:
		n, err := fixtureNumber(v)
		if err != nil {
			return "", errors.Wrapf(err, "%s", s.ID())
		}
		w.AddImport("smithytime")
		return t.pointer("Time", "smithytime.ParseEpochSeconds("+n+")", elem), nil

	case smithy.ShapeTypeBigInteger, smithy.ShapeTypeBigDecimal:
		return "", errors.Mark(errors.Newf("%s fixture values", s.Type()), ErrUnsupported)
	}

	return "", errors.Mark(errors.Newf("%s fixture values", s.Type()), ErrUnsupported)
}

func (t *protocolTestWriter) structLiteral(s *smithy.Schema, name string, fields map[string]any, elem bool) (string, error) {
	for k := range fields {
		if s.Member(k) == nil {
			return "", errors.Newf("%s has no member %s", s.ID(), k)
		}
	}

	var b strings.Builder
	if !elem {
		b.WriteString("&")
	}
	b.WriteString(name + "{")
	for _, m := range s.Members() {
		fv, ok := fields[m.MemberName()]
		if !ok {
			continue
		}
		lit, err := t.paramLiteral(m, fv, false)
		if err != nil {
			return "", errors.Wrapf(err, "member %s", m.MemberName())
		}
		fmt.Fprintf(&b, "\n%s: %s,", t.gc.Symbols.MemberName(m), lit)
	}
	if len(fields) != 0 {
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}

func (t *protocolTestWriter) pointer(helper, v string, elem bool) string {
	if elem {
		return v
	}
	t.lw.AddImport("ptr")
	return "ptr." + helper + "(" + v + ")"
}

// addTypeImports imports the packages the Go type of s names.
func (t *protocolTestWriter) addTypeImports(s *smithy.Schema) {
	typ := t.gc.Symbols.GoType(s, false)
	if strings.Contains(typ, "time.") {
		t.lw.AddImport("time")
	}
	if strings.Contains(typ, "io.") {
		t.lw.AddImport("io")
	}
}

func (t *protocolTestWriter) floatLiteral(v any) (string, error) {
	if str, ok := v.(string); ok {
		t.lw.AddImport("math")
		switch str {
		case "NaN":
			return "math.NaN()", nil
		case "Infinity":
			return "math.Inf(1)", nil
		case "-Infinity":
			return "math.Inf(-1)", nil
		}
		return "", errors.Newf("invalid float %q", str)
	}

	n, err := fixtureNumber(v)
	if err != nil {
		return "", err
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsInf(f, 0) {
		return "", errors.Newf("invalid float %s", n)
	}
	return n, nil
}

func (t *protocolTestWriter) documentLiteral(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "nil", nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return strconv.Quote(v), nil
	case gojson.Number, float64:
		n, err := fixtureNumber(v)
		if err != nil {
			return "", err
		}
		t.lw.AddImport("encoding/json")
		return fmt.Sprintf("json.Number(%q)", n), nil
	case []any:
		elems := make([]string, 0, len(v))
		for _, item := range v {
			lit, err := t.documentLiteral(item)
			if err != nil {
				return "", err
			}
			elems = append(elems, lit)
		}
		return "[]any{" + joinLiterals(elems) + "}", nil
	case map[string]any:
		keys := lo.Keys(v)
		sort.Strings(keys)
		elems := make([]string, 0, len(keys))
		for _, k := range keys {
			lit, err := t.documentLiteral(v[k])
			if err != nil {
				return "", err
			}
			elems = append(elems, strconv.Quote(k)+": "+lit)
		}
		return "map[string]any{" + joinLiterals(elems) + "}", nil
	}
	return "", errors.Newf("unexpected document value %T", v)
}

func fixtureNumber(v any) (string, error) {
	switch v := v.(type) {
	case gojson.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return "", errors.Newf("expected number, got %T", v)
}

func joinLiterals(elems []string) string {
	if len(elems) == 0 {
		return ""
	}
	return "\n" + strings.Join(elems, ",\n") + ",\n"
}
