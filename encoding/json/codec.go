// Package json implements the JSON document codec used by JSON-based
// protocols.
package json

import (
	smithy "github.com/aws/smithy-go-codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
	"github.com/aws/smithy-go-codegen/traits"
)

// Codec is a JSON codec.
type Codec struct {
	// Whether to respect smithy.api#jsonName on member shapes.
	UseJSONName bool

	// The format used for timestamps without a timestampFormat trait.
	// Defaults to epoch-seconds.
	TimestampFormat smithytime.Format

	// Whether members of the outermost structure that are bound to an HTTP
	// location other than the body are left out of the document.
	SkipHTTPBindings bool
}

var _ smithy.Codec = (*Codec)(nil)

// Serializer returns a JSON shape serializer.
func (c *Codec) Serializer() smithy.ShapeSerializer {
	return &ShapeSerializer{
		codec: c,
		root:  NewEncoder(),
	}
}

// Deserializer returns a JSON shape deserializer.
func (c *Codec) Deserializer(p []byte) smithy.ShapeDeserializer {
	d := NewShapeDeserializer(p)
	d.codec = c
	return d
}

// Serialize encodes v as the structure described by schema and returns the
// document.
func (c *Codec) Serialize(schema *smithy.Schema, v smithy.Serializable) []byte {
	ss := c.Serializer()
	ss.WriteStruct(schema, v)
	return ss.Bytes()
}

// Deserialize decodes the document p into v. Members absent from the
// document are left unchanged.
func (c *Codec) Deserialize(p []byte, v smithy.Deserializable) error {
	return v.Deserialize(c.Deserializer(p))
}

func (c *Codec) timestampFormat(s *smithy.Schema) smithytime.Format {
	if t, ok := smithy.SchemaTrait[*traits.TimestampFormat](s); ok {
		if f, ok := smithytime.ParseFormat(t.Format); ok {
			return f
		}
	}
	if c.TimestampFormat == "" {
		return smithytime.EpochSeconds
	}
	return c.TimestampFormat
}

func (c *Codec) memberName(s *smithy.Schema) string {
	if c.UseJSONName {
		if t, ok := smithy.SchemaTrait[*traits.JSONName](s); ok {
			return t.Name
		}
	}
	return s.MemberName()
}

// httpBound reports whether a top-level member is bound outside the body.
// An httpPayload member is itself the body, not a member of a document.
func httpBound(s *smithy.Schema) bool {
	return smithy.HasSchemaTrait[*traits.HTTPHeader](s) ||
		smithy.HasSchemaTrait[*traits.HTTPPrefixHeaders](s) ||
		smithy.HasSchemaTrait[*traits.HTTPLabel](s) ||
		smithy.HasSchemaTrait[*traits.HTTPQuery](s) ||
		smithy.HasSchemaTrait[*traits.HTTPQueryParams](s) ||
		smithy.HasSchemaTrait[*traits.HTTPResponseCode](s) ||
		smithy.HasSchemaTrait[*traits.HTTPPayload](s)
}

type stack struct {
	values []any
}

type empty struct{}

func (s *stack) Top() any {
	if len(s.values) == 0 {
		return empty{}
	}
	return s.values[len(s.values)-1]
}

func (s *stack) Push(v any) {
	s.values = append(s.values, v)
}

func (s *stack) Pop() {
	s.values = s.values[:len(s.values)-1]
}

func (s *stack) Len() int {
	return len(s.values)
}
