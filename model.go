package smithy

import (
	"fmt"
	"sort"
)

// UnitID is the shape ID of smithy.api#Unit. Operations without a modeled
// input or output reference it.
var UnitID = ShapeID{Namespace: "smithy.api", Name: "Unit"}

// Operation is an operation shape with its input, output and error shapes
// resolved.
type Operation struct {
	*Schema

	Input  *Schema
	Output *Schema
	Errors []*Schema
}

// Service is a service shape with its operations resolved.
type Service struct {
	*Schema

	Version    string
	Operations []*Operation
}

// Model is a resolved, immutable Smithy shape graph.
type Model struct {
	shapes     map[ShapeID]*Schema
	operations map[ShapeID]*Operation
	services   map[ShapeID]*Service
}

// Shape returns the non-member shape with the given ID.
func (m *Model) Shape(id ShapeID) (*Schema, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// Operation returns the operation with the given ID.
func (m *Model) Operation(id ShapeID) (*Operation, bool) {
	op, ok := m.operations[id]
	return op, ok
}

// Service returns the service with the given ID.
func (m *Model) Service(id ShapeID) (*Service, bool) {
	svc, ok := m.services[id]
	return svc, ok
}

// Operations returns every operation in the model sorted by shape ID.
func (m *Model) Operations() []*Operation {
	ops := make([]*Operation, 0, len(m.operations))
	for _, op := range m.operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].ID().String() < ops[j].ID().String()
	})
	return ops
}

// Services returns every service in the model sorted by shape ID.
func (m *Model) Services() []*Service {
	svcs := make([]*Service, 0, len(m.services))
	for _, svc := range m.services {
		svcs = append(svcs, svc)
	}
	sort.Slice(svcs, func(i, j int) bool {
		return svcs[i].ID().String() < svcs[j].ID().String()
	})
	return svcs
}

// Shapes returns every non-member shape in the model sorted by shape ID.
func (m *Model) Shapes() []*Schema {
	shapes := make([]*Schema, 0, len(m.shapes))
	for _, s := range m.shapes {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool {
		return shapes[i].ID().String() < shapes[j].ID().String()
	})
	return shapes
}

type memberDef struct {
	name   string
	target ShapeID
	traits []Trait
}

type operationDef struct {
	input, output ShapeID
	errors        []ShapeID
}

type serviceDef struct {
	version    string
	operations []ShapeID
}

// ModelBuilder assembles a Model. Shapes may be added in any order; member
// targets are resolved when Build is called, so recursive shapes are
// supported.
type ModelBuilder struct {
	order      []ShapeID
	shapes     map[ShapeID]*Schema
	members    map[ShapeID][]memberDef
	operations map[ShapeID]operationDef
	services   map[ShapeID]serviceDef
	built      bool
}

// NewModelBuilder returns an empty ModelBuilder.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{
		shapes:     map[ShapeID]*Schema{},
		members:    map[ShapeID][]memberDef{},
		operations: map[ShapeID]operationDef{},
		services:   map[ShapeID]serviceDef{},
	}
}

// AddShape registers a non-member shape.
func (b *ModelBuilder) AddShape(id ShapeID, typ ShapeType, traits ...Trait) {
	if _, ok := b.shapes[id]; !ok {
		b.order = append(b.order, id)
	}
	b.shapes[id] = NewSchema(id.String(), typ, WithTraits(traits...))
}

// AddMember registers a member of a previously or subsequently added shape.
func (b *ModelBuilder) AddMember(parent ShapeID, name string, target ShapeID, traits ...Trait) {
	b.members[parent] = append(b.members[parent], memberDef{name, target, traits})
}

// AddOperation registers an operation shape. A zero input or output ID
// resolves to smithy.api#Unit.
func (b *ModelBuilder) AddOperation(id, input, output ShapeID, errors []ShapeID, traits ...Trait) {
	b.AddShape(id, ShapeTypeOperation, traits...)
	b.operations[id] = operationDef{input, output, errors}
}

// AddService registers a service shape and its operations.
func (b *ModelBuilder) AddService(id ShapeID, version string, operations []ShapeID, traits ...Trait) {
	b.AddShape(id, ShapeTypeService, traits...)
	b.services[id] = serviceDef{version, operations}
}

// Build resolves every reference and returns the Model. A builder can only
// be built once.
func (b *ModelBuilder) Build() (*Model, error) {
	if b.built {
		return nil, fmt.Errorf("model builder already built")
	}
	b.built = true

	m := &Model{
		shapes:     make(map[ShapeID]*Schema, len(b.shapes)),
		operations: make(map[ShapeID]*Operation, len(b.operations)),
		services:   make(map[ShapeID]*Service, len(b.services)),
	}
	for id, s := range b.shapes {
		m.shapes[id] = s
	}

	resolve := func(id ShapeID) (*Schema, error) {
		if s, ok := m.shapes[id]; ok {
			return s, nil
		}
		if s, ok := preludeShape(id); ok {
			m.shapes[id] = s
			return s, nil
		}
		return nil, fmt.Errorf("shape %s is not defined", id)
	}

	for _, id := range b.order {
		parent := m.shapes[id]
		for _, def := range b.members[id] {
			target, err := resolve(def.target)
			if err != nil {
				return nil, fmt.Errorf("member %s$%s: %w", id, def.name, err)
			}
			parent.addMember(newMember(def.name, target, def.traits))
		}
	}
	for id := range b.members {
		if _, ok := b.shapes[id]; !ok {
			return nil, fmt.Errorf("members declared for undefined shape %s", id)
		}
	}

	for id, def := range b.operations {
		op := &Operation{Schema: m.shapes[id]}
		var err error
		if op.Input, err = resolve(orUnit(def.input)); err != nil {
			return nil, fmt.Errorf("operation %s input: %w", id, err)
		}
		if op.Output, err = resolve(orUnit(def.output)); err != nil {
			return nil, fmt.Errorf("operation %s output: %w", id, err)
		}
		for _, eid := range def.errors {
			e, err := resolve(eid)
			if err != nil {
				return nil, fmt.Errorf("operation %s error: %w", id, err)
			}
			op.Errors = append(op.Errors, e)
		}
		m.operations[id] = op
	}

	for id, def := range b.services {
		svc := &Service{Schema: m.shapes[id], Version: def.version}
		for _, oid := range def.operations {
			op, ok := m.operations[oid]
			if !ok {
				return nil, fmt.Errorf("service %s: operation %s is not defined", id, oid)
			}
			svc.Operations = append(svc.Operations, op)
		}
		m.services[id] = svc
	}

	return m, nil
}

func orUnit(id ShapeID) ShapeID {
	if id.IsZero() {
		return UnitID
	}
	return id
}

var preludeTypes = map[string]ShapeType{
	"Blob":             ShapeTypeBlob,
	"Boolean":          ShapeTypeBoolean,
	"PrimitiveBoolean": ShapeTypeBoolean,
	"String":           ShapeTypeString,
	"Timestamp":        ShapeTypeTimestamp,
	"Byte":             ShapeTypeByte,
	"PrimitiveByte":    ShapeTypeByte,
	"Short":            ShapeTypeShort,
	"PrimitiveShort":   ShapeTypeShort,
	"Integer":          ShapeTypeInteger,
	"PrimitiveInteger": ShapeTypeInteger,
	"Long":             ShapeTypeLong,
	"PrimitiveLong":    ShapeTypeLong,
	"Float":            ShapeTypeFloat,
	"PrimitiveFloat":   ShapeTypeFloat,
	"Double":           ShapeTypeDouble,
	"PrimitiveDouble":  ShapeTypeDouble,
	"Document":         ShapeTypeDocument,
	"BigInteger":       ShapeTypeBigInteger,
	"BigDecimal":       ShapeTypeBigDecimal,
	"Unit":             ShapeTypeStructure,
}

func preludeShape(id ShapeID) (*Schema, bool) {
	if id.Namespace != "smithy.api" || len(id.Member) != 0 {
		return nil, false
	}
	typ, ok := preludeTypes[id.Name]
	if !ok {
		return nil, false
	}
	return NewSchema(id.String(), typ), true
}
