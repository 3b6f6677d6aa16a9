package eventstream

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	smithy "github.com/aws/smithy-go-codegen"
	smithyjson "github.com/aws/smithy-go-codegen/encoding/json"
	smithyio "github.com/aws/smithy-go-codegen/io"
	smithytime "github.com/aws/smithy-go-codegen/time"
)

var (
	stringSchema   = smithy.NewSchema("smithy.api#String", smithy.ShapeTypeString)
	greetingSchema = smithy.NewSchema("com.example#Greeting", smithy.ShapeTypeStructure,
		smithy.WithMember("text", stringSchema))
	eventsSchema = smithy.NewSchema("com.example#Events", smithy.ShapeTypeUnion,
		smithy.WithMember("greeting", greetingSchema))
)

type greeting struct {
	Text *string
}

func (g *greeting) Serialize(s smithy.ShapeSerializer) {
	s.WriteStringPtr(greetingSchema.Member("text"), g.Text)
}

func (g *greeting) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, greetingSchema, func(ms *smithy.Schema) error {
		if ms.MemberName() == "text" {
			return d.ReadStringPtr(ms, &g.Text)
		}
		return d.Skip()
	})
}

func deserializeEvent(codec PayloadCodec, eventType string, payload []byte) (*greeting, error) {
	if eventType != "greeting" {
		return nil, errors.New("unknown event " + eventType)
	}
	var g greeting
	if err := codec.Deserialize(payload, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func newCodec() *smithyjson.Codec {
	return &smithyjson.Codec{TimestampFormat: smithytime.EpochSeconds}
}

type output struct{ RequestID string }

func ptr(v string) *string { return &v }

func TestDuplexEventStream(t *testing.T) {
	ctx := context.Background()
	body := smithyio.NewBytesProvider(4)
	codec := newCodec()

	// the service echoes the request body back
	stream := NewDuplexEventStream(codec, output{RequestID: "abc"}, body, io.NopCloser(body), deserializeEvent)

	if e, a := "abc", stream.Response().RequestID; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	for _, text := range []string{"hello", "world"} {
		if err := stream.Send(ctx, eventsSchema.Member("greeting"), &greeting{Text: ptr(text)}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if err := stream.CloseInput(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, expect := range []string{"hello", "world"} {
		ev, err := stream.Receive(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.Text == nil || *ev.Text != expect {
			t.Errorf("expected %v, got %v", expect, ev.Text)
		}
	}

	if _, err := stream.Receive(ctx); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestInputEventStreamClosed(t *testing.T) {
	body := smithyio.NewBytesProvider(1)
	stream := NewInputEventStream(newCodec(), output{}, body)

	if err := stream.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("expected second close to succeed, got %v", err)
	}

	err := stream.Send(context.Background(), eventsSchema.Member("greeting"), &greeting{})
	if !errors.Is(err, ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
}

func TestInputEventStreamCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := NewInputEventStream(newCodec(), output{}, smithyio.NewBytesProvider(1))
	if err := stream.Send(ctx, eventsSchema.Member("greeting"), &greeting{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOutputEventStreamErrors(t *testing.T) {
	cases := map[string]struct {
		message Message
		code    string
		msg     string
	}{
		"exception": {
			message: Message{
				Headers: []Header{
					{Name: MessageTypeHeader, Value: ExceptionMessageType},
					{Name: ExceptionTypeHeader, Value: "ThrottlingException"},
				},
				Payload: []byte(`{"message":"slow down"}`),
			},
			code: "ThrottlingException",
			msg:  `{"message":"slow down"}`,
		},
		"error": {
			message: Message{
				Headers: []Header{
					{Name: MessageTypeHeader, Value: ErrorMessageType},
					{Name: ErrorCodeHeader, Value: "InternalFailure"},
					{Name: ErrorMessageHeader, Value: "boom"},
				},
			},
			code: "InternalFailure",
			msg:  "boom",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			body := smithyio.NewBytesProvider(1)
			p, err := c.message.MarshalBinary()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			body.Write(p)
			body.Close()

			stream := NewOutputEventStream(newCodec(), output{}, io.NopCloser(body), deserializeEvent)
			_, err = stream.Receive(context.Background())

			var apiErr smithy.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if e, a := c.code, apiErr.ErrorCode(); e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
			if e, a := c.msg, apiErr.ErrorMessage(); e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
		})
	}
}

func TestOutputEventStreamUnknownMessageType(t *testing.T) {
	body := smithyio.NewBytesProvider(1)
	p, _ := Message{Headers: []Header{{Name: MessageTypeHeader, Value: "other"}}}.MarshalBinary()
	body.Write(p)
	body.Close()

	stream := NewOutputEventStream(newCodec(), output{}, io.NopCloser(body), deserializeEvent)
	_, err := stream.Receive(context.Background())

	var derr *smithy.DeserializationError
	if !errors.As(err, &derr) {
		t.Errorf("expected DeserializationError, got %v", err)
	}
}

// waitFor fails the test if fn does not return within a second.
func waitFor(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func TestOutputEventStreamCloseWhileReceiving(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	stream := NewOutputEventStream(newCodec(), output{}, pr, deserializeEvent)

	errs := make(chan error, 1)
	go func() {
		_, err := stream.Receive(context.Background())
		errs <- err
	}()
	time.Sleep(20 * time.Millisecond)

	waitFor(t, "Close", func() {
		if err := stream.Close(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
	waitFor(t, "Receive", func() {
		if err := <-errs; err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})
	if _, err := stream.Receive(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF after close, got %v", err)
	}
}

func TestOutputEventStreamCanceledWhileReceiving(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	stream := NewOutputEventStream(newCodec(), output{}, pr, deserializeEvent)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	waitFor(t, "Receive", func() {
		if _, err := stream.Receive(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})
}

func TestInputEventStreamCloseWhileSending(t *testing.T) {
	stream := NewInputEventStream(newCodec(), output{}, smithyio.NewBytesProvider(1))
	ctx := context.Background()
	if err := stream.Send(ctx, eventsSchema.Member("greeting"), &greeting{Text: ptr("first")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- stream.Send(ctx, eventsSchema.Member("greeting"), &greeting{Text: ptr("second")})
	}()
	time.Sleep(20 * time.Millisecond)

	waitFor(t, "Close", func() { stream.Close() })
	waitFor(t, "Send", func() {
		if err := <-errs; !errors.Is(err, ErrStreamClosed) {
			t.Errorf("expected ErrStreamClosed, got %v", err)
		}
	})
}

func TestInputEventStreamCanceledWhileSending(t *testing.T) {
	stream := NewInputEventStream(newCodec(), output{}, smithyio.NewBytesProvider(1))
	if err := stream.Send(context.Background(), eventsSchema.Member("greeting"), &greeting{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	waitFor(t, "Send", func() {
		if err := stream.Send(ctx, eventsSchema.Member("greeting"), &greeting{}); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})
}
