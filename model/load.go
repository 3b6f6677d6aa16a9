// Package model loads Smithy models from their JSON AST form into the
// resolved shape graph the code generator walks.
package model

import (
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	smithy "github.com/aws/smithy-go-codegen"
)

// ErrInvalidModel marks errors caused by a malformed or inconsistent model.
var ErrInvalidModel = errors.New("invalid model")

// LoadFile loads the JSON AST model at path.
func LoadFile(path string) (*smithy.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model %s", path)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", path)
	}
	return m, nil
}

// Load reads a Smithy JSON AST document from r. Mixins are expected to be
// flattened, as the Smithy build tooling does when it writes the AST.
func Load(r io.Reader) (*smithy.Model, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var ast astModel
	if err := dec.Decode(&ast); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode model"), ErrInvalidModel)
	}
	if len(ast.Smithy) == 0 {
		return nil, errors.Mark(errors.New("missing smithy version"), ErrInvalidModel)
	}

	m, err := build(&ast)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidModel)
	}
	return m, nil
}

type loader struct {
	ast     *astModel
	builder *smithy.ModelBuilder

	// traits from apply statements, keyed by absolute shape or member ID
	applied map[string]map[string]json.RawMessage
}

func build(ast *astModel) (*smithy.Model, error) {
	l := &loader{
		ast:     ast,
		builder: smithy.NewModelBuilder(),
		applied: map[string]map[string]json.RawMessage{},
	}

	ids := make([]string, 0, len(ast.Shapes))
	for id, s := range ast.Shapes {
		if s.Type == "apply" {
			l.apply(id, s.Traits)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := l.addShape(id, ast.Shapes[id]); err != nil {
			return nil, errors.Wrapf(err, "shape %s", id)
		}
	}

	return l.builder.Build()
}

func (l *loader) apply(id string, t map[string]json.RawMessage) {
	if l.applied[id] == nil {
		l.applied[id] = map[string]json.RawMessage{}
	}
	for k, v := range t {
		l.applied[id][k] = v
	}
}

func (l *loader) traits(id string, raw map[string]json.RawMessage) ([]smithy.Trait, error) {
	merged := make(map[string]json.RawMessage, len(raw)+len(l.applied[id]))
	for k, v := range raw {
		merged[k] = v
	}
	for k, v := range l.applied[id] {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ts []smithy.Trait
	for _, k := range keys {
		t, err := decodeTrait(k, merged[k])
		if err != nil {
			return nil, errors.Wrapf(err, "trait %s", k)
		}
		if t != nil {
			ts = append(ts, t)
		}
	}
	return ts, nil
}

func (l *loader) addShape(id string, s astShape) error {
	sid := smithy.ParseShapeID(id)
	if len(sid.Namespace) == 0 || len(sid.Name) == 0 || len(sid.Member) != 0 {
		return errors.Newf("invalid shape id %q", id)
	}

	typ, ok := smithy.ParseShapeType(s.Type)
	if !ok {
		return errors.Newf("unknown shape type %q", s.Type)
	}

	ts, err := l.traits(id, s.Traits)
	if err != nil {
		return err
	}

	switch typ {
	case smithy.ShapeTypeOperation:
		var errs []smithy.ShapeID
		for _, e := range s.Errors {
			errs = append(errs, smithy.ParseShapeID(e.Target))
		}
		l.builder.AddOperation(sid, ref(s.Input), ref(s.Output), errs, ts...)
		return nil

	case smithy.ShapeTypeService:
		ops, err := l.serviceOperations(s, map[string]bool{})
		if err != nil {
			return err
		}
		l.builder.AddService(sid, s.Version, ops, ts...)
		return nil

	case smithy.ShapeTypeResource:
		l.builder.AddShape(sid, typ, ts...)
		return nil
	}

	l.builder.AddShape(sid, typ, ts...)

	switch typ {
	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		if s.Member == nil {
			return errors.Newf("%s shape has no member", typ)
		}
		return l.addMember(sid, "member", *s.Member)

	case smithy.ShapeTypeMap:
		if s.Key == nil || s.Value == nil {
			return errors.New("map shape needs a key and a value")
		}
		if err := l.addMember(sid, "key", *s.Key); err != nil {
			return err
		}
		return l.addMember(sid, "value", *s.Value)

	default:
		for _, m := range s.Members {
			if err := l.addMember(sid, m.Name, m.astMember); err != nil {
				return err
			}
		}
		return nil
	}
}

func (l *loader) addMember(parent smithy.ShapeID, name string, m astMember) error {
	id := smithy.ShapeID{Namespace: parent.Namespace, Name: parent.Name, Member: name}
	ts, err := l.traits(id.String(), m.Traits)
	if err != nil {
		return errors.Wrapf(err, "member %s", name)
	}
	if len(m.Target) == 0 {
		return errors.Newf("member %s has no target", name)
	}
	l.builder.AddMember(parent, name, smithy.ParseShapeID(m.Target), ts...)
	return nil
}

// serviceOperations collects the operations bound to a service directly and
// through its resources.
func (l *loader) serviceOperations(s astShape, seen map[string]bool) ([]smithy.ShapeID, error) {
	var ops []smithy.ShapeID
	add := func(r *astRef) {
		if r != nil && !seen[r.Target] {
			seen[r.Target] = true
			ops = append(ops, smithy.ParseShapeID(r.Target))
		}
	}

	for i := range s.Operations {
		add(&s.Operations[i])
	}
	for _, r := range []*astRef{s.Create, s.Put, s.Read, s.Update, s.Delete, s.List} {
		add(r)
	}
	for i := range s.CollectionOperations {
		add(&s.CollectionOperations[i])
	}

	for _, r := range s.Resources {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true

		res, ok := l.ast.Shapes[r.Target]
		if !ok || res.Type != "resource" {
			return nil, errors.Newf("resource %s is not defined", r.Target)
		}
		nested, err := l.serviceOperations(res, seen)
		if err != nil {
			return nil, err
		}
		ops = append(ops, nested...)
	}
	return ops, nil
}

func ref(r *astRef) smithy.ShapeID {
	if r == nil {
		return smithy.ShapeID{}
	}
	return smithy.ParseShapeID(r.Target)
}
