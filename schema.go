package smithy

import (
	"maps"
	"strings"
)

// ShapeType is a type of Smithy shape.
// See https://smithy.io/2.0/spec/idl.html#defining-shapes.
type ShapeType int

// Enumerates ShapeType per the Smithy IDL.
const (
	ShapeTypeBlob ShapeType = iota
	ShapeTypeBoolean
	ShapeTypeString
	ShapeTypeTimestamp
	ShapeTypeByte
	ShapeTypeShort
	ShapeTypeInteger
	ShapeTypeLong
	ShapeTypeFloat
	ShapeTypeDocument
	ShapeTypeDouble
	ShapeTypeBigDecimal
	ShapeTypeBigInteger
	ShapeTypeEnum
	ShapeTypeIntEnum
	ShapeTypeList
	ShapeTypeSet
	ShapeTypeMap
	ShapeTypeStructure
	ShapeTypeUnion
	ShapeTypeMember
	ShapeTypeService
	ShapeTypeResource
	ShapeTypeOperation
)

var shapeTypeNames = [...]string{
	ShapeTypeBlob:       "blob",
	ShapeTypeBoolean:    "boolean",
	ShapeTypeString:     "string",
	ShapeTypeTimestamp:  "timestamp",
	ShapeTypeByte:       "byte",
	ShapeTypeShort:      "short",
	ShapeTypeInteger:    "integer",
	ShapeTypeLong:       "long",
	ShapeTypeFloat:      "float",
	ShapeTypeDocument:   "document",
	ShapeTypeDouble:     "double",
	ShapeTypeBigDecimal: "bigDecimal",
	ShapeTypeBigInteger: "bigInteger",
	ShapeTypeEnum:       "enum",
	ShapeTypeIntEnum:    "intEnum",
	ShapeTypeList:       "list",
	ShapeTypeSet:        "set",
	ShapeTypeMap:        "map",
	ShapeTypeStructure:  "structure",
	ShapeTypeUnion:      "union",
	ShapeTypeMember:     "member",
	ShapeTypeService:    "service",
	ShapeTypeResource:   "resource",
	ShapeTypeOperation:  "operation",
}

// String returns the type name as it appears in the Smithy JSON AST.
func (t ShapeType) String() string {
	if t < 0 || int(t) >= len(shapeTypeNames) {
		return "unknown"
	}
	return shapeTypeNames[t]
}

// ParseShapeType returns the ShapeType for a Smithy JSON AST type name.
func ParseShapeType(name string) (ShapeType, bool) {
	for i, n := range shapeTypeNames {
		if n == name {
			return ShapeType(i), true
		}
	}
	return 0, false
}

// ShapeID fields of a Smithy shape ID.
type ShapeID struct {
	Namespace, Name, Member string
}

// ParseShapeID splits an absolute shape ID of the form
// namespace#Name$member into its components.
func ParseShapeID(s string) ShapeID {
	ns, n, _ := strings.Cut(s, "#")
	n, m, _ := strings.Cut(n, "$")
	return ShapeID{ns, n, m}
}

// String returns the absolute form of the shape ID.
func (id ShapeID) String() string {
	s := id.Namespace + "#" + id.Name
	if len(id.Member) != 0 {
		s += "$" + id.Member
	}
	return s
}

// IsZero reports whether the ID is unset.
func (id ShapeID) IsZero() bool {
	return id == ShapeID{}
}

// Root returns the ID with the member component removed.
func (id ShapeID) Root() ShapeID {
	return ShapeID{Namespace: id.Namespace, Name: id.Name}
}

// Schema encodes information about a shape from a Smithy model.
//
// The code generator walks schemas to decide how each member is bound to the
// wire, and generated clients use the same schemas at runtime to dynamically
// (de)serialize request/responses.
type Schema struct {
	id  ShapeID
	typ ShapeType

	target  *Schema   // member -> target shape
	members []*Schema // declaration order
	traits  map[string]Trait
}

// SchemaOptions configures a new Schema.
type SchemaOptions struct {
	members []*Schema
	traits  []Trait
}

// WithMember adds a member targeting the given Schema.
//
// Traits provided for the member here override any traits on the target if
// there is collision.
func WithMember(name string, target *Schema, traits ...Trait) func(*SchemaOptions) {
	return func(o *SchemaOptions) {
		o.members = append(o.members, newMember(name, target, traits))
	}
}

// WithTraits adds traits to the Schema.
func WithTraits(traits ...Trait) func(*SchemaOptions) {
	return func(o *SchemaOptions) {
		o.traits = append(o.traits, traits...)
	}
}

func newMember(name string, target *Schema, traits []Trait) *Schema {
	m := &Schema{
		id:     ShapeID{Member: name},
		typ:    target.typ,
		target: target,
		traits: maps.Clone(target.traits),
	}
	if m.traits == nil {
		m.traits = make(map[string]Trait, len(traits))
	}
	for _, t := range traits {
		m.traits[t.TraitID()] = t
	}
	return m
}

// NewSchema returns a schema with the provided members and traits.
//
// Generated clients include schemas for every shape that needs to be
// (de)serialized as part of a service operation in a schemas/ package.
func NewSchema(id string, typ ShapeType, opts ...func(*SchemaOptions)) *Schema {
	var o SchemaOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Schema{
		id:     ParseShapeID(id),
		typ:    typ,
		traits: make(map[string]Trait, len(o.traits)),
	}
	for _, t := range o.traits {
		s.traits[t.TraitID()] = t
	}
	for _, m := range o.members {
		s.addMember(m)
	}
	return s
}

func (s *Schema) addMember(m *Schema) {
	m.id.Namespace = s.id.Namespace
	m.id.Name = s.id.Name
	s.members = append(s.members, m)
}

// ID returns the shape ID for this schema as it appears in the original
// Smithy model.
func (s *Schema) ID() ShapeID {
	return s.id
}

// Type returns the schema's type. Members report the type of their target.
func (s *Schema) Type() ShapeType {
	return s.typ
}

// IsMember reports whether the schema describes a member of an aggregate
// shape.
func (s *Schema) IsMember() bool {
	return s.target != nil
}

// MemberName returns the name of the member, or the empty string for
// non-member schemas.
func (s *Schema) MemberName() string {
	return s.id.Member
}

// Target returns the shape a member targets. A non-member schema is its own
// target.
func (s *Schema) Target() *Schema {
	if s.target != nil {
		return s.target
	}
	return s
}

// Member returns the named member from the schema.
func (s *Schema) Member(name string) *Schema {
	for _, m := range s.Members() {
		if m.id.Member == name {
			return m
		}
	}
	return nil
}

// Members returns the members of the schema in model declaration order.
// A member schema returns the members of its target.
func (s *Schema) Members() []*Schema {
	if s.target != nil {
		return s.target.Members()
	}
	return s.members
}

// HasTrait reports whether a trait with the given ID is applied.
func (s *Schema) HasTrait(id string) bool {
	_, ok := s.traits[id]
	return ok
}

// TraitIDs returns the IDs of every trait applied to the schema.
func (s *Schema) TraitIDs() []string {
	ids := make([]string, 0, len(s.traits))
	for id := range s.traits {
		ids = append(ids, id)
	}
	return ids
}

// SchemaTrait returns the target trait on the schema if it exists.
func SchemaTrait[T Trait](s *Schema) (T, bool) {
	var trait T

	opaque, ok := s.traits[trait.TraitID()]
	if !ok {
		return trait, false
	}

	tt, ok := opaque.(T)
	return tt, ok
}

// HasSchemaTrait reports whether the target trait is applied to the schema.
func HasSchemaTrait[T Trait](s *Schema) bool {
	_, ok := SchemaTrait[T](s)
	return ok
}
