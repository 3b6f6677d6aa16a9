package codegen

import (
	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

// Location is where a member is bound on an HTTP message.
type Location int

// Enumerates Location.
const (
	LocationDocument Location = iota
	LocationHeader
	LocationPrefixHeaders
	LocationQuery
	LocationQueryParams
	LocationLabel
	LocationResponseCode
	LocationPayload
)

var locationNames = [...]string{
	LocationDocument:      "document",
	LocationHeader:        "header",
	LocationPrefixHeaders: "prefixHeaders",
	LocationQuery:         "query",
	LocationQueryParams:   "queryParams",
	LocationLabel:         "label",
	LocationResponseCode:  "responseCode",
	LocationPayload:       "payload",
}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return "unknown"
	}
	return locationNames[l]
}

// Binding is a member and where it is bound.
type Binding struct {
	Member   *smithy.Schema
	Location Location

	// Name is the header name, query key, label name or header prefix.
	Name string
}

// BindingPlan is the partition of a structure's members by HTTP location.
// Each slice keeps model declaration order.
type BindingPlan struct {
	Shape *smithy.Schema

	Headers       []Binding
	PrefixHeaders []Binding
	Query         []Binding
	QueryParams   []Binding
	Labels        []Binding
	ResponseCode  *Binding
	Payload       *Binding
	Document      []Binding

	// PayloadKind is the variant of the payload member, PayloadNone when
	// there is none.
	PayloadKind PayloadKind
}

// HasBody reports whether the message carries a payload or document body.
func (p *BindingPlan) HasBody() bool {
	return p.Payload != nil || len(p.Document) != 0
}

// ClassifyRequest partitions the members of op's input structure.
func ClassifyRequest(op *smithy.Operation) (*BindingPlan, error) {
	plan, err := classify(op.Input, true)
	if err != nil {
		return nil, errors.Wrapf(err, "operation %s input", op.ID())
	}
	return plan, nil
}

// ClassifyResponse partitions the members of an output or error structure.
func ClassifyResponse(shape *smithy.Schema) (*BindingPlan, error) {
	plan, err := classify(shape, false)
	if err != nil {
		return nil, errors.Wrapf(err, "structure %s", shape.ID())
	}
	return plan, nil
}

func classify(shape *smithy.Schema, request bool) (*BindingPlan, error) {
	plan := &BindingPlan{Shape: shape}

	for _, m := range shape.Members() {
		b := locate(m, request)
		switch b.Location {
		case LocationHeader:
			plan.Headers = append(plan.Headers, b)
		case LocationPrefixHeaders:
			plan.PrefixHeaders = append(plan.PrefixHeaders, b)
		case LocationQuery:
			plan.Query = append(plan.Query, b)
		case LocationQueryParams:
			plan.QueryParams = append(plan.QueryParams, b)
		case LocationLabel:
			plan.Labels = append(plan.Labels, b)
		case LocationResponseCode:
			plan.ResponseCode = &b
		case LocationPayload:
			if plan.Payload != nil {
				return nil, errors.Mark(
					errors.Newf("members %s and %s are both bound to the payload",
						plan.Payload.Member.MemberName(), m.MemberName()),
					ErrMultiplePayloads)
			}
			plan.Payload = &b
		default:
			plan.Document = append(plan.Document, b)
		}
	}

	if plan.Payload != nil {
		kind, err := payloadKind(plan.Payload.Member)
		if err != nil {
			return nil, err
		}
		plan.PayloadKind = kind
	}
	return plan, nil
}

// locate returns the binding of m from its most specific HTTP binding
// trait. Request only and response only traits fall back to the document on
// the other side.
func locate(m *smithy.Schema, request bool) Binding {
	if request {
		if smithy.HasSchemaTrait[*traits.HTTPLabel](m) {
			return Binding{m, LocationLabel, m.MemberName()}
		}
		if t, ok := smithy.SchemaTrait[*traits.HTTPQuery](m); ok {
			return Binding{m, LocationQuery, t.Name}
		}
		if smithy.HasSchemaTrait[*traits.HTTPQueryParams](m) {
			return Binding{m, LocationQueryParams, ""}
		}
	}
	if t, ok := smithy.SchemaTrait[*traits.HTTPHeader](m); ok {
		return Binding{m, LocationHeader, t.Name}
	}
	if t, ok := smithy.SchemaTrait[*traits.HTTPPrefixHeaders](m); ok {
		return Binding{m, LocationPrefixHeaders, t.Prefix}
	}
	if !request && smithy.HasSchemaTrait[*traits.HTTPResponseCode](m) {
		return Binding{m, LocationResponseCode, ""}
	}
	if smithy.HasSchemaTrait[*traits.HTTPPayload](m) {
		return Binding{m, LocationPayload, ""}
	}
	return Binding{m, LocationDocument, m.MemberName()}
}
