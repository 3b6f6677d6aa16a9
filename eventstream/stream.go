package eventstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	smithy "github.com/aws/smithy-go-codegen"
)

// PayloadCodec encodes and decodes event payloads. *json.Codec from the
// encoding/json package satisfies it.
type PayloadCodec interface {
	Serialize(*smithy.Schema, smithy.Serializable) []byte
	Deserialize([]byte, smithy.Deserializable) error
}

// EventDeserializer decodes one event from the stream. eventType is the
// name of the union variant that was sent.
type EventDeserializer[E any] func(codec PayloadCodec, eventType string, payload []byte) (E, error)

// ErrStreamClosed is returned by Send after the input stream was closed.
var ErrStreamClosed = errors.New("event stream closed")

// InputEventStream sends events to the service over the request body.
type InputEventStream[R any] struct {
	codec    PayloadCodec
	response R

	// sendMu serializes writes; Close does not take it.
	sendMu sync.Mutex
	writer io.WriteCloser

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewInputEventStream returns an InputEventStream writing framed events to
// writer.
func NewInputEventStream[R any](codec PayloadCodec, initialResponse R, writer io.WriteCloser) *InputEventStream[R] {
	return &InputEventStream[R]{
		codec:    codec,
		response: initialResponse,
		writer:   writer,
	}
}

// Response returns the initial response of the operation.
func (s *InputEventStream[R]) Response() R { return s.response }

// Send encodes v as the union variant described by variant and writes it to
// the stream. If ctx is done before the write completes, the stream is
// closed and ctx's error is returned.
func (s *InputEventStream[R]) Send(ctx context.Context, variant *smithy.Schema, v smithy.Serializable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := Message{
		Headers: []Header{
			{Name: MessageTypeHeader, Value: EventMessageType},
			{Name: EventTypeHeader, Value: variant.MemberName()},
			{Name: ContentTypeHeader, Value: "application/json"},
		},
		Payload: s.codec.Serialize(variant, v),
	}
	p, err := msg.MarshalBinary()
	if err != nil {
		return &smithy.SerializationError{Err: err}
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed.Load() {
		return ErrStreamClosed
	}

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()
	if _, err := s.writer.Write(p); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if s.closed.Load() {
			return ErrStreamClosed
		}
		return fmt.Errorf("write event, %w", err)
	}
	return nil
}

// Close ends the input stream and unblocks a pending Send. Close is safe to
// call more than once and from any goroutine.
func (s *InputEventStream[R]) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.writer.Close()
	})
	return s.closeErr
}

// OutputEventStream receives events from the service over the response
// body.
type OutputEventStream[R, E any] struct {
	codec        PayloadCodec
	response     R
	deserializer EventDeserializer[E]

	// recvMu serializes reads; Close does not take it.
	recvMu sync.Mutex
	reader io.ReadCloser

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewOutputEventStream returns an OutputEventStream reading framed events
// from reader.
func NewOutputEventStream[R, E any](
	codec PayloadCodec, initialResponse R, reader io.ReadCloser, deserializer EventDeserializer[E],
) *OutputEventStream[R, E] {
	return &OutputEventStream[R, E]{
		codec:        codec,
		response:     initialResponse,
		deserializer: deserializer,
		reader:       reader,
	}
}

// Response returns the initial response of the operation.
func (s *OutputEventStream[R, E]) Response() R { return s.response }

// Receive reads the next event. It returns io.EOF when the service ends the
// stream or the stream was closed, and a smithy.APIError when the service
// sends an error or modeled exception message. If ctx is done while waiting,
// the stream is closed and ctx's error is returned.
func (s *OutputEventStream[R, E]) Receive(ctx context.Context) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.recvMu.Lock()
	defer s.recvMu.Unlock()
	if s.closed.Load() {
		return zero, io.EOF
	}

	stop := context.AfterFunc(ctx, func() { s.Close() })
	msg, err := ReadMessage(s.reader)
	stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if errors.Is(err, io.EOF) || s.closed.Load() {
			return zero, io.EOF
		}
		return zero, &smithy.DeserializationError{Err: err}
	}

	typ, _ := msg.Header(MessageTypeHeader)
	switch typ {
	case EventMessageType:
		eventType, _ := msg.Header(EventTypeHeader)
		return s.deserializer(s.codec, eventType, msg.Payload)

	case ExceptionMessageType:
		code, _ := msg.Header(ExceptionTypeHeader)
		return zero, &smithy.GenericAPIError{
			Code:    code,
			Message: string(msg.Payload),
			Fault:   smithy.FaultServer,
		}

	case ErrorMessageType:
		code, _ := msg.Header(ErrorCodeHeader)
		message, _ := msg.Header(ErrorMessageHeader)
		return zero, &smithy.GenericAPIError{
			Code:    code,
			Message: message,
			Fault:   smithy.FaultServer,
		}

	default:
		return zero, &smithy.DeserializationError{
			Err: fmt.Errorf("unknown event stream message type %q", typ),
		}
	}
}

// Close closes the response body and unblocks a pending Receive. Close is
// safe to call more than once and from any goroutine.
func (s *OutputEventStream[R, E]) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.reader.Close()
	})
	return s.closeErr
}

// DuplexEventStream sends and receives events over one operation call. The
// two directions are independent; callers keep a single sender and a single
// receiver each.
type DuplexEventStream[R, E any] struct {
	input  *InputEventStream[R]
	output *OutputEventStream[R, E]
}

// NewDuplexEventStream returns a DuplexEventStream sharing codec between
// both directions.
func NewDuplexEventStream[R, E any](
	codec PayloadCodec, initialResponse R, writer io.WriteCloser, reader io.ReadCloser, deserializer EventDeserializer[E],
) *DuplexEventStream[R, E] {
	return &DuplexEventStream[R, E]{
		input:  NewInputEventStream(codec, initialResponse, writer),
		output: NewOutputEventStream(codec, initialResponse, reader, deserializer),
	}
}

// Response returns the initial response of the operation.
func (s *DuplexEventStream[R, E]) Response() R { return s.input.response }

// Send writes an event to the input direction.
func (s *DuplexEventStream[R, E]) Send(ctx context.Context, variant *smithy.Schema, v smithy.Serializable) error {
	return s.input.Send(ctx, variant, v)
}

// Receive reads an event from the output direction.
func (s *DuplexEventStream[R, E]) Receive(ctx context.Context) (E, error) {
	return s.output.Receive(ctx)
}

// CloseInput ends the input direction only.
func (s *DuplexEventStream[R, E]) CloseInput() error {
	return s.input.Close()
}

// Close closes both directions.
func (s *DuplexEventStream[R, E]) Close() error {
	ierr := s.input.Close()
	oerr := s.output.Close()
	if ierr != nil {
		return ierr
	}
	return oerr
}
