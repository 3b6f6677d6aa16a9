package model

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// astModel is the top level of a Smithy JSON AST document.
// See https://smithy.io/2.0/spec/json-ast.html.
type astModel struct {
	Smithy   string              `json:"smithy"`
	Metadata map[string]any      `json:"metadata,omitempty"`
	Shapes   map[string]astShape `json:"shapes"`
}

type astRef struct {
	Target string `json:"target"`
}

type astMember struct {
	Target string                     `json:"target"`
	Traits map[string]json.RawMessage `json:"traits,omitempty"`
}

type astShape struct {
	Type   string                     `json:"type"`
	Traits map[string]json.RawMessage `json:"traits,omitempty"`

	// structure, union, enum, intEnum
	Members astMembers `json:"members,omitempty"`

	// list, set, map
	Member *astMember `json:"member,omitempty"`
	Key    *astMember `json:"key,omitempty"`
	Value  *astMember `json:"value,omitempty"`

	// operation
	Input  *astRef  `json:"input,omitempty"`
	Output *astRef  `json:"output,omitempty"`
	Errors []astRef `json:"errors,omitempty"`

	// service, resource
	Version              string   `json:"version,omitempty"`
	Operations           []astRef `json:"operations,omitempty"`
	Resources            []astRef `json:"resources,omitempty"`
	CollectionOperations []astRef `json:"collectionOperations,omitempty"`
	Create               *astRef  `json:"create,omitempty"`
	Put                  *astRef  `json:"put,omitempty"`
	Read                 *astRef  `json:"read,omitempty"`
	Update               *astRef  `json:"update,omitempty"`
	Delete               *astRef  `json:"delete,omitempty"`
	List                 *astRef  `json:"list,omitempty"`
}

type namedMember struct {
	Name string
	astMember
}

// astMembers keeps the members of an aggregate shape in declaration order,
// which a plain map would lose.
type astMembers []namedMember

func (m *astMembers) UnmarshalJSON(p []byte) error {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Newf("members must be an object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.Newf("member name must be a string, got %v", tok)
		}

		var member astMember
		if err := dec.Decode(&member); err != nil {
			return errors.Wrapf(err, "member %s", name)
		}
		*m = append(*m, namedMember{Name: name, astMember: member})
	}

	_, err = dec.Token()
	return err
}
