package codegen

import (
	"strings"

	"github.com/samber/lo"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

// SymbolProvider maps shapes to the Go identifiers and types of the
// generated package. Shape types themselves are generated elsewhere; these
// names are the contract emitted protocol code relies on:
//
//   - structures, unions and enums are named types, PascalCase of the shape
//     name, with a Schema<Name> variable describing them
//   - members are fields named PascalCase of the member name
//   - optional scalar members are pointers, enums and collections are values
//   - union variants are &<Union>Member<Variant>{Value: v}
//   - an operation's Unit input or output is <Operation>Input or Output
//   - operation inputs, outputs and structures implement smithy.Serializable
//     and smithy.Deserializable; error structures also implement error
//   - a union type implements smithy.Serializable by writing its variant
//     member, and is read with Deserialize<Union>(smithy.ShapeDeserializer)
//   - variants not known to the model are &UnknownUnionMember{Tag, Value}
type SymbolProvider struct{}

// NewSymbolProvider returns a SymbolProvider.
func NewSymbolProvider() *SymbolProvider {
	return &SymbolProvider{}
}

// Identifier converts a Smithy name to an exported Go identifier.
func (*SymbolProvider) Identifier(name string) string {
	id := lo.PascalCase(name)
	if len(id) == 0 {
		return "X"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "X" + id
	}
	return id
}

// TypeName returns the name of the Go type generated for s.
func (p *SymbolProvider) TypeName(s *smithy.Schema) string {
	return p.Identifier(s.Target().ID().Name)
}

// SchemaName returns the name of the schema variable describing s.
func (p *SymbolProvider) SchemaName(s *smithy.Schema) string {
	return "Schema" + p.TypeName(s)
}

// MemberName returns the field name of member m.
func (p *SymbolProvider) MemberName(m *smithy.Schema) string {
	return p.Identifier(m.MemberName())
}

// OperationName returns the Go name of op.
func (p *SymbolProvider) OperationName(op *smithy.Operation) string {
	return p.Identifier(op.ID().Name)
}

// InputName returns the type name of op's input structure.
func (p *SymbolProvider) InputName(op *smithy.Operation) string {
	if op.Input.ID() == smithy.UnitID {
		return p.OperationName(op) + "Input"
	}
	return p.TypeName(op.Input)
}

// OutputName returns the type name of op's output structure.
func (p *SymbolProvider) OutputName(op *smithy.Operation) string {
	if op.Output.ID() == smithy.UnitID {
		return p.OperationName(op) + "Output"
	}
	return p.TypeName(op.Output)
}

// InputSchemaName returns the schema variable of op's input structure.
func (p *SymbolProvider) InputSchemaName(op *smithy.Operation) string {
	return "Schema" + p.InputName(op)
}

// OutputSchemaName returns the schema variable of op's output structure.
func (p *SymbolProvider) OutputSchemaName(op *smithy.Operation) string {
	return "Schema" + p.OutputName(op)
}

// UnionMemberName returns the type wrapping variant v of union u.
func (p *SymbolProvider) UnionMemberName(u, v *smithy.Schema) string {
	return p.TypeName(u) + "Member" + p.MemberName(v)
}

var scalarTypes = map[smithy.ShapeType]string{
	smithy.ShapeTypeString:     "string",
	smithy.ShapeTypeBoolean:    "bool",
	smithy.ShapeTypeByte:       "int8",
	smithy.ShapeTypeShort:      "int16",
	smithy.ShapeTypeInteger:    "int32",
	smithy.ShapeTypeLong:       "int64",
	smithy.ShapeTypeFloat:      "float32",
	smithy.ShapeTypeDouble:     "float64",
	smithy.ShapeTypeTimestamp:  "time.Time",
	smithy.ShapeTypeBigInteger: "big.Int",
	smithy.ShapeTypeBigDecimal: "big.Float",
}

// GoType returns the Go type of s. Member types are pointers for optional
// scalars and structures; element types, used for list and map values and
// union variants, are values.
func (p *SymbolProvider) GoType(s *smithy.Schema, member bool) string {
	switch s.Type() {
	case smithy.ShapeTypeBlob:
		if smithy.HasSchemaTrait[*traits.Streaming](s) {
			return "io.Reader"
		}
		return "[]byte"
	case smithy.ShapeTypeDocument:
		return "any"
	case smithy.ShapeTypeEnum, smithy.ShapeTypeIntEnum, smithy.ShapeTypeUnion:
		return p.TypeName(s)
	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		return "[]" + p.GoType(s.Member("member"), false)
	case smithy.ShapeTypeMap:
		return "map[string]" + p.GoType(s.Member("value"), false)
	case smithy.ShapeTypeStructure:
		if member {
			return "*" + p.TypeName(s)
		}
		return p.TypeName(s)
	}

	t := scalarTypes[s.Type()]
	if member || strings.HasPrefix(t, "big.") {
		return "*" + t
	}
	return t
}
