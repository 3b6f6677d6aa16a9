package codegen

import (
	"fmt"

	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
	"github.com/aws/smithy-go-codegen/traits"
)

// TimeFormatExpr returns the expression naming f in emitted code.
func TimeFormatExpr(f smithytime.Format) string {
	switch f {
	case smithytime.HTTPDate:
		return "smithytime.HTTPDate"
	case smithytime.EpochSeconds:
		return "smithytime.EpochSeconds"
	default:
		return "smithytime.DateTime"
	}
}

// memberTimeFormat returns the timestampFormat of m, or def.
func memberTimeFormat(m *smithy.Schema, def smithytime.Format) smithytime.Format {
	if t, ok := smithy.SchemaTrait[*traits.TimestampFormat](m); ok {
		if f, ok := smithytime.ParseFormat(t.Format); ok {
			return f
		}
	}
	return def
}

// stringValue is how a scalar is written to a header, query value or label.
type stringValue struct {
	// Method of the httpbinding value encoder.
	Method string
	// Value is the argument to Method.
	Value string
}

// encodeScalar returns the encoder call for the scalar s held in expr.
// Pointer is set when expr is a pointer that has already been checked
// against nil.
func encodeScalar(w *Writer, s *smithy.Schema, expr string, pointer bool, format smithytime.Format) (stringValue, error) {
	deref := expr
	if pointer {
		deref = "*" + expr
	}

	switch s.Type() {
	case smithy.ShapeTypeString:
		return stringValue{"String", deref}, nil
	case smithy.ShapeTypeEnum:
		return stringValue{"String", "string(" + expr + ")"}, nil
	case smithy.ShapeTypeIntEnum:
		return stringValue{"Integer", "int32(" + expr + ")"}, nil
	case smithy.ShapeTypeBoolean:
		return stringValue{"Boolean", deref}, nil
	case smithy.ShapeTypeByte:
		return stringValue{"Byte", deref}, nil
	case smithy.ShapeTypeShort:
		return stringValue{"Short", deref}, nil
	case smithy.ShapeTypeInteger:
		return stringValue{"Integer", deref}, nil
	case smithy.ShapeTypeLong:
		return stringValue{"Long", deref}, nil
	case smithy.ShapeTypeFloat:
		return stringValue{"Float", deref}, nil
	case smithy.ShapeTypeDouble:
		return stringValue{"Double", deref}, nil
	case smithy.ShapeTypeBigInteger:
		return stringValue{"BigInteger", expr}, nil
	case smithy.ShapeTypeBigDecimal:
		return stringValue{"BigDecimal", expr}, nil
	case smithy.ShapeTypeBlob:
		return stringValue{"Blob", expr}, nil
	case smithy.ShapeTypeTimestamp:
		w.AddImport("smithytime")
		return stringValue{"String", fmt.Sprintf("smithytime.FormatString(%s, %s)", deref, TimeFormatExpr(format))}, nil
	}
	return stringValue{}, errors.Mark(errors.Newf("%s cannot be bound to a header, query or label", s.Type()), ErrInvalidModel)
}

// presence returns the condition under which member m of target is set.
func presence(gc *GenerationContext, m *smithy.Schema, target string) string {
	expr := target + "." + gc.Symbols.MemberName(m)
	switch m.Type() {
	case smithy.ShapeTypeEnum, smithy.ShapeTypeList, smithy.ShapeTypeSet, smithy.ShapeTypeMap:
		return "len(" + expr + ") != 0"
	case smithy.ShapeTypeIntEnum:
		return expr + " != 0"
	}
	return expr + " != nil"
}

// isPointer reports whether member m of a structure is held as a pointer.
func isPointer(gc *GenerationContext, m *smithy.Schema) bool {
	t := gc.Symbols.GoType(m, true)
	return len(t) != 0 && t[0] == '*'
}

func writeRequestBindings(c *BodyContext) error {
	for _, b := range c.Plan.Labels {
		if err := writeLabel(c, b); err != nil {
			return err
		}
	}
	for _, b := range c.Plan.Query {
		if err := writeQuery(c, b); err != nil {
			return err
		}
	}
	for _, b := range c.Plan.QueryParams {
		if err := writeQueryParams(c, b); err != nil {
			return err
		}
	}
	for _, b := range c.Plan.Headers {
		if err := writeHeader(c, b); err != nil {
			return err
		}
	}
	for _, b := range c.Plan.PrefixHeaders {
		if err := writePrefixHeaders(c, b); err != nil {
			return err
		}
	}
	return nil
}

func writeLabel(c *BodyContext, b Binding) error {
	w := c.Writer
	expr := c.Target + "." + c.Symbols.MemberName(b.Member)

	var empty string
	switch b.Member.Type() {
	case smithy.ShapeTypeString:
		empty = expr + " == nil || len(*" + expr + ") == 0"
	case smithy.ShapeTypeEnum, smithy.ShapeTypeBlob:
		empty = "len(" + expr + ") == 0"
	case smithy.ShapeTypeIntEnum:
		empty = expr + " == 0"
	default:
		empty = expr + " == nil"
	}
	w.AddImport("fmt")
	w.Write("if %s {", empty)
	w.Write("return nil, &smithy.SerializationError{Err: fmt.Errorf(\"input member %s must not be empty\")}", b.Member.MemberName())
	w.Write("}")

	v, err := encodeScalar(w, b.Member, expr, isPointer(c.GenerationContext, b.Member), memberTimeFormat(b.Member, smithytime.DateTime))
	if err != nil {
		return errors.Wrapf(err, "label %s", b.Member.MemberName())
	}
	w.Write("if err := encoder.SetURI(%q).%s(%s); err != nil {", b.Name, v.Method, v.Value)
	w.Write("return nil, &smithy.SerializationError{Err: err}")
	w.Write("}")
	return nil
}

func isList(s *smithy.Schema) bool {
	return s.Type() == smithy.ShapeTypeList || s.Type() == smithy.ShapeTypeSet
}

func writeQuery(c *BodyContext, b Binding) error {
	w := c.Writer
	expr := c.Target + "." + c.Symbols.MemberName(b.Member)
	format := memberTimeFormat(b.Member, smithytime.DateTime)

	w.Write("if %s {", presence(c.GenerationContext, b.Member, c.Target))
	if isList(b.Member) {
		elem := b.Member.Target().Member("member")
		v, err := encodeScalar(w, elem, "v", false, memberTimeFormat(elem, format))
		if err != nil {
			return errors.Wrapf(err, "query %s", b.Member.MemberName())
		}
		w.Write("for _, v := range %s {", expr)
		w.Write("encoder.AddQuery(%q).%s(%s)", b.Name, v.Method, v.Value)
		w.Write("}")
	} else {
		v, err := encodeScalar(w, b.Member, expr, isPointer(c.GenerationContext, b.Member), format)
		if err != nil {
			return errors.Wrapf(err, "query %s", b.Member.MemberName())
		}
		w.Write("encoder.SetQuery(%q).%s(%s)", b.Name, v.Method, v.Value)
	}
	w.Write("}")
	return nil
}

// writeQueryParams writes a map of query parameters. Keys also bound by
// httpQuery are left to that binding, which is written first.
func writeQueryParams(c *BodyContext, b Binding) error {
	w := c.Writer
	expr := c.Target + "." + c.Symbols.MemberName(b.Member)

	value := b.Member.Target().Member("value")
	w.Write("for k, vs := range %s {", expr)
	w.Write("if encoder.HasQuery(k) {\ncontinue\n}")
	if isList(value) {
		elem := value.Target().Member("member")
		v, err := encodeScalar(w, elem, "v", false, memberTimeFormat(elem, smithytime.DateTime))
		if err != nil {
			return errors.Wrapf(err, "query params %s", b.Member.MemberName())
		}
		w.Write("for _, v := range vs {")
		w.Write("encoder.AddQuery(k).%s(%s)", v.Method, v.Value)
		w.Write("}")
	} else {
		v, err := encodeScalar(w, value, "vs", false, memberTimeFormat(value, smithytime.DateTime))
		if err != nil {
			return errors.Wrapf(err, "query params %s", b.Member.MemberName())
		}
		w.Write("encoder.SetQuery(k).%s(%s)", v.Method, v.Value)
	}
	w.Write("}")
	return nil
}

func writeHeader(c *BodyContext, b Binding) error {
	w := c.Writer
	expr := c.Target + "." + c.Symbols.MemberName(b.Member)
	format := memberTimeFormat(b.Member, smithytime.HTTPDate)

	cond := presence(c.GenerationContext, b.Member, c.Target)
	if b.Member.Type() == smithy.ShapeTypeString && !smithy.HasSchemaTrait[*traits.MediaType](b.Member) {
		cond = expr + " != nil && len(*" + expr + ") != 0"
	}

	w.Write("if %s {", cond)
	if isList(b.Member) {
		elem := b.Member.Target().Member("member")
		v, err := encodeScalar(w, elem, "v", false, memberTimeFormat(elem, format))
		if err != nil {
			return errors.Wrapf(err, "header %s", b.Member.MemberName())
		}
		if elem.Type() == smithy.ShapeTypeString || elem.Type() == smithy.ShapeTypeEnum {
			v.Value = "httpbinding.QuoteHeaderListValue(" + v.Value + ")"
		}
		w.Write("for _, v := range %s {", expr)
		w.Write("encoder.AddHeader(%q).%s(%s)", b.Name, v.Method, v.Value)
		w.Write("}")
	} else {
		v, err := encodeScalar(w, b.Member, expr, isPointer(c.GenerationContext, b.Member), format)
		if err != nil {
			return errors.Wrapf(err, "header %s", b.Member.MemberName())
		}
		if b.Member.Type() == smithy.ShapeTypeString && smithy.HasSchemaTrait[*traits.MediaType](b.Member) {
			w.AddImport("encoding/base64")
			v.Value = "base64.StdEncoding.EncodeToString([]byte(" + v.Value + "))"
		}
		w.Write("encoder.SetHeader(%q).%s(%s)", b.Name, v.Method, v.Value)
	}
	w.Write("}")
	return nil
}

func writePrefixHeaders(c *BodyContext, b Binding) error {
	w := c.Writer
	expr := c.Target + "." + c.Symbols.MemberName(b.Member)

	value := b.Member.Target().Member("value")
	v, err := encodeScalar(w, value, "v", false, smithytime.HTTPDate)
	if err != nil {
		return errors.Wrapf(err, "prefix headers %s", b.Member.MemberName())
	}
	w.Write("if %s {", presence(c.GenerationContext, b.Member, c.Target))
	w.Write("headers := encoder.Headers(%q)", b.Name)
	w.Write("for k, v := range %s {", expr)
	w.Write("headers.SetHeader(k).%s(%s)", v.Method, v.Value)
	w.Write("}")
	w.Write("}")
	return nil
}

func writeResponseBindings(c *BodyContext) error {
	if b := c.Plan.ResponseCode; b != nil {
		c.Writer.AddImport("ptr")
		c.Writer.Write("%s.%s = ptr.Int32(int32(response.StatusCode))", c.Target, c.Symbols.MemberName(b.Member))
	}
	for _, b := range c.Plan.Headers {
		if err := readHeader(c, b); err != nil {
			return err
		}
	}
	for _, b := range c.Plan.PrefixHeaders {
		c.Writer.AddImport("httpbinding")
		c.Writer.Write("%s.%s = httpbinding.PrefixHeaders(response.Header, %q)", c.Target, c.Symbols.MemberName(b.Member), b.Name)
	}
	return nil
}

func readHeader(c *BodyContext, b Binding) error {
	w := c.Writer
	dst := c.Target + "." + c.Symbols.MemberName(b.Member)
	format := memberTimeFormat(b.Member, smithytime.HTTPDate)

	w.Write("if headerValues := response.Header.Values(%q); len(headerValues) != 0 {", b.Name)
	if isList(b.Member) {
		elem := b.Member.Target().Member("member")
		format = memberTimeFormat(elem, format)

		w.AddImport("httpbinding", "strings")
		split := "SplitHeaderListValues"
		if elem.Type() == smithy.ShapeTypeTimestamp && format == smithytime.HTTPDate {
			split = "SplitHTTPDateTimestampHeaderListValues"
		}
		w.Write("headerValues, err := httpbinding.%s(headerValues)", split)
		w.Write("if err != nil {")
		w.Write("%s&smithy.DeserializationError{Err: err}", c.Fail)
		w.Write("}")
		if elem.Type() == smithy.ShapeTypeTimestamp {
			w.AddImport("time")
		}
		w.Write("var list %s", c.Symbols.GoType(b.Member, true))
		w.Write("for _, v := range headerValues {")
		w.Write("v = strings.TrimSpace(v)")
		if err := parseScalar(c, elem, "v", "list = append(list, %s)", false, format); err != nil {
			return errors.Wrapf(err, "header %s", b.Member.MemberName())
		}
		w.Write("}")
		w.Write("%s = list", dst)
	} else {
		w.AddImport("strings")
		w.Write("v := strings.TrimSpace(headerValues[0])")
		if b.Member.Type() == smithy.ShapeTypeString && smithy.HasSchemaTrait[*traits.MediaType](b.Member) {
			w.AddImport("encoding/base64", "smithy")
			w.Write("decoded, err := base64.StdEncoding.DecodeString(v)")
			w.Write("if err != nil {")
			w.Write("%s&smithy.DeserializationError{Err: err}", c.Fail)
			w.Write("}")
			w.Write("v = string(decoded)")
		}
		assign := dst + " = %s"
		if err := parseScalar(c, b.Member, "v", assign, isPointer(c.GenerationContext, b.Member), format); err != nil {
			return errors.Wrapf(err, "header %s", b.Member.MemberName())
		}
	}
	w.Write("}")
	return nil
}

// parseScalar emits the parsing of the string variable src as a value of s,
// and the statement assign with the result in place of %s.
func parseScalar(c *BodyContext, s *smithy.Schema, src, assign string, pointer bool, format smithytime.Format) error {
	w := c.Writer

	wrap := func(helper, v string) string {
		if !pointer {
			return v
		}
		w.AddImport("ptr")
		return "ptr." + helper + "(" + v + ")"
	}
	parse := func(call string) {
		w.AddImport("smithy")
		w.Write("parsed, err := %s", call)
		w.Write("if err != nil {")
		w.Write("%s&smithy.DeserializationError{Err: err}", c.Fail)
		w.Write("}")
	}
	parseInt := func(bits int) {
		w.AddImport("strconv")
		parse(fmt.Sprintf("strconv.ParseInt(%s, 10, %d)", src, bits))
	}

	var value string
	switch s.Type() {
	case smithy.ShapeTypeString:
		value = wrap("String", src)
	case smithy.ShapeTypeEnum:
		value = c.Symbols.TypeName(s) + "(" + src + ")"
	case smithy.ShapeTypeBoolean:
		w.AddImport("strconv")
		parse(fmt.Sprintf("strconv.ParseBool(%s)", src))
		value = wrap("Bool", "parsed")
	case smithy.ShapeTypeByte:
		parseInt(8)
		value = wrap("Int8", "int8(parsed)")
	case smithy.ShapeTypeShort:
		parseInt(16)
		value = wrap("Int16", "int16(parsed)")
	case smithy.ShapeTypeInteger:
		parseInt(32)
		value = wrap("Int32", "int32(parsed)")
	case smithy.ShapeTypeLong:
		parseInt(64)
		value = wrap("Int64", "parsed")
	case smithy.ShapeTypeIntEnum:
		parseInt(32)
		value = c.Symbols.TypeName(s) + "(parsed)"
	case smithy.ShapeTypeFloat:
		w.AddImport("httpbinding")
		parse(fmt.Sprintf("httpbinding.ParseFloat(%s, 32)", src))
		value = wrap("Float32", "float32(parsed)")
	case smithy.ShapeTypeDouble:
		w.AddImport("httpbinding")
		parse(fmt.Sprintf("httpbinding.ParseFloat(%s, 64)", src))
		value = wrap("Float64", "parsed")
	case smithy.ShapeTypeTimestamp:
		w.AddImport("smithytime")
		parse(fmt.Sprintf("smithytime.ParseString(%s, %s)", src, TimeFormatExpr(format)))
		value = wrap("Time", "parsed")
	case smithy.ShapeTypeBlob:
		w.AddImport("encoding/base64")
		parse(fmt.Sprintf("base64.StdEncoding.DecodeString(%s)", src))
		value = "parsed"
	case smithy.ShapeTypeBigInteger, smithy.ShapeTypeBigDecimal:
		ctor := "new(big.Int).SetString(" + src + ", 10)"
		if s.Type() == smithy.ShapeTypeBigDecimal {
			ctor = "new(big.Float).SetString(" + src + ")"
		}
		w.AddImport("math/big", "fmt", "smithy")
		w.Write("parsed, ok := %s", ctor)
		w.Write("if !ok {")
		w.Write("%s&smithy.DeserializationError{Err: fmt.Errorf(\"invalid %s %%q\", %s)}", c.Fail, s.Type(), src)
		w.Write("}")
		value = "parsed"
	default:
		return errors.Mark(errors.Newf("%s cannot be bound to a header", s.Type()), ErrInvalidModel)
	}

	w.Write(assign, value)
	return nil
}
