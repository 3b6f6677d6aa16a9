package codegen

import (
	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

// EventStreamKind is the wrapper an event stream operation is exposed
// through.
type EventStreamKind int

// Enumerates EventStreamKind.
const (
	EventStreamDuplex EventStreamKind = iota
	EventStreamInput
	EventStreamOutput
)

func (k EventStreamKind) String() string {
	switch k {
	case EventStreamDuplex:
		return "duplex"
	case EventStreamInput:
		return "input"
	default:
		return "output"
	}
}

// SelectEventStream returns the wrapper for an operation with an input
// event stream and/or an output event deserializer. An operation with
// neither has no wrapper.
func SelectEventStream(hasInputStream, hasOutputDeserializer bool) (EventStreamKind, error) {
	switch {
	case hasInputStream && hasOutputDeserializer:
		return EventStreamDuplex, nil
	case hasInputStream:
		return EventStreamInput, nil
	case hasOutputDeserializer:
		return EventStreamOutput, nil
	}
	return 0, ErrNoEventStream
}

// EventStreamContext is the state the event stream hook emits against.
type EventStreamContext struct {
	*GenerationContext

	Writer    *Writer
	Operation *smithy.Operation
	Kind      EventStreamKind

	// Input and Output are the event stream members of the operation input
	// and output, nil when that direction has no stream.
	Input  *smithy.Schema
	Output *smithy.Schema
}

// EventUnion returns the Go type of the events received, empty for input
// streams.
func (c *EventStreamContext) EventUnion() string {
	if c.Output == nil {
		return ""
	}
	return c.Symbols.TypeName(c.Output)
}

func eventStreamMember(plan *BindingPlan) *smithy.Schema {
	if plan.PayloadKind != PayloadEventStream {
		return nil
	}
	return plan.Payload.Member
}

// GenerateEventStream emits newEventStream<Operation>, which wraps the
// request and response bodies of an event stream operation, and the
// deserializer of its output events.
func (g *HTTPBindingProtocolGenerator) GenerateEventStream(
	gc *GenerationContext, op *smithy.Operation, w *Writer,
) error {
	in, err := ClassifyRequest(op)
	if err != nil {
		return err
	}
	out, err := ClassifyResponse(op.Output)
	if err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}

	c := &EventStreamContext{
		GenerationContext: gc,
		Writer:            w,
		Operation:         op,
		Input:             eventStreamMember(in),
		Output:            eventStreamMember(out),
	}
	kind, err := SelectEventStream(c.Input != nil, c.Output != nil)
	if errors.Is(err, ErrNoEventStream) {
		return nil
	}
	c.Kind = kind

	if err := g.Hooks.WrapEventStream(c); err != nil {
		return errors.Wrapf(err, "operation %s", op.ID())
	}
	if c.Output != nil {
		writeEventDeserializer(c)
	}
	return nil
}

// writeEventDeserializer emits deserializeEvent<Operation>, mapping an
// event type to the union variant it carries. Modeled exceptions arrive as
// exception messages and are not variants here.
func writeEventDeserializer(c *EventStreamContext) {
	w := c.Writer
	union := c.Output.Target()
	name := c.Symbols.OperationName(c.Operation)

	w.AddImport("eventstream")
	w.Write("func deserializeEvent%s(codec eventstream.PayloadCodec, eventType string, payload []byte) (%s, error) {",
		name, c.EventUnion())
	w.Write("switch eventType {")
	for _, v := range union.Members() {
		if smithy.HasSchemaTrait[*traits.Error](v) {
			continue
		}
		w.Write("case %q:", v.MemberName())
		w.Write("v := &%s{}", c.Symbols.TypeName(v))
		w.Write("if err := codec.Deserialize(payload, v); err != nil {\nreturn nil, err\n}")
		w.Write("return &%s{Value: *v}, nil", c.Symbols.UnionMemberName(union, v))
	}
	w.Write("default:")
	w.Write("return &UnknownUnionMember{Tag: eventType, Value: payload}, nil")
	w.Write("}")
	w.Write("}\n")
}
