package codegen

import (
	"testing"

	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

func exampleID(name string) smithy.ShapeID {
	return smithy.ShapeID{Namespace: "com.example", Name: name}
}

func preludeID(name string) smithy.ShapeID {
	return smithy.ShapeID{Namespace: "smithy.api", Name: name}
}

// buildShape returns the structure Shape with the members added by fn.
func buildShape(t *testing.T, fn func(b *smithy.ModelBuilder, id smithy.ShapeID)) *smithy.Schema {
	t.Helper()

	b := smithy.NewModelBuilder()
	id := exampleID("Shape")
	b.AddShape(id, smithy.ShapeTypeStructure)
	fn(b, id)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	s, ok := m.Shape(id)
	if !ok {
		t.Fatalf("shape %s missing", id)
	}
	return s
}

func TestClassifyRequestPrecedence(t *testing.T) {
	s := buildShape(t, func(b *smithy.ModelBuilder, id smithy.ShapeID) {
		b.AddMember(id, "label", preludeID("String"), &traits.HTTPLabel{}, &traits.HTTPHeader{Name: "X-Label"})
		b.AddMember(id, "query", preludeID("String"), &traits.HTTPQuery{Name: "q"}, &traits.HTTPHeader{Name: "X-Query"})
		b.AddMember(id, "params", preludeID("String"), &traits.HTTPQueryParams{})
		b.AddMember(id, "header", preludeID("String"), &traits.HTTPHeader{Name: "X-Header"})
		b.AddMember(id, "prefix", preludeID("String"), &traits.HTTPPrefixHeaders{Prefix: "X-Meta-"})
		b.AddMember(id, "code", preludeID("Integer"), &traits.HTTPResponseCode{})
		b.AddMember(id, "body", preludeID("String"))
	})

	plan, err := classify(s, true)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if e, a := 1, len(plan.Labels); e != a {
		t.Fatalf("expected %v labels, got %v", e, a)
	}
	if e, a := "label", plan.Labels[0].Name; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := "q", plan.Query[0].Name; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := 1, len(plan.QueryParams); e != a {
		t.Errorf("expected %v query params, got %v", e, a)
	}
	if e, a := 1, len(plan.Headers); e != a {
		t.Fatalf("expected %v headers, got %v", e, a)
	}
	if e, a := "X-Header", plan.Headers[0].Name; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := "X-Meta-", plan.PrefixHeaders[0].Name; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	// response codes only apply to responses
	if plan.ResponseCode != nil {
		t.Errorf("expected no response code binding on a request")
	}
	if e, a := 2, len(plan.Document); e != a {
		t.Fatalf("expected %v document members, got %v", e, a)
	}
	if e, a := "code", plan.Document[0].Member.MemberName(); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if plan.Payload != nil || plan.PayloadKind != PayloadNone {
		t.Errorf("expected no payload, got %v", plan.PayloadKind)
	}
}

func TestClassifyResponse(t *testing.T) {
	s := buildShape(t, func(b *smithy.ModelBuilder, id smithy.ShapeID) {
		b.AddMember(id, "label", preludeID("String"), &traits.HTTPLabel{})
		b.AddMember(id, "query", preludeID("String"), &traits.HTTPQuery{Name: "q"})
		b.AddMember(id, "header", preludeID("String"), &traits.HTTPHeader{Name: "X-Header"})
		b.AddMember(id, "code", preludeID("Integer"), &traits.HTTPResponseCode{})
		b.AddMember(id, "payload", preludeID("Blob"), &traits.HTTPPayload{})
	})

	plan, err := ClassifyResponse(s)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if plan.ResponseCode == nil {
		t.Fatalf("expected response code binding")
	}
	if e, a := "code", plan.ResponseCode.Member.MemberName(); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if e, a := 2, len(plan.Document); e != a {
		t.Errorf("expected label and query in the document, got %v members", a)
	}
	if len(plan.Labels) != 0 || len(plan.Query) != 0 {
		t.Errorf("expected no request bindings on a response")
	}
	if e, a := PayloadBlob, plan.PayloadKind; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if !plan.HasBody() {
		t.Errorf("expected response to have a body")
	}
}

func TestClassifyMultiplePayloads(t *testing.T) {
	s := buildShape(t, func(b *smithy.ModelBuilder, id smithy.ShapeID) {
		b.AddMember(id, "a", preludeID("Blob"), &traits.HTTPPayload{})
		b.AddMember(id, "b", preludeID("String"), &traits.HTTPPayload{})
	})

	_, err := ClassifyResponse(s)
	if err == nil {
		t.Fatalf("expect error, got none")
	}
	if !errors.Is(err, ErrMultiplePayloads) {
		t.Errorf("expected ErrMultiplePayloads, got %v", err)
	}
	if e, a := "multiple payloads", ErrorKind(err); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestPayloadKind(t *testing.T) {
	cases := map[string]struct {
		Target    smithy.ShapeType
		Traits    []smithy.Trait
		Expect    PayloadKind
		Streaming bool
		ExpectErr bool
	}{
		"event stream": {
			Target:    smithy.ShapeTypeUnion,
			Traits:    []smithy.Trait{&traits.Streaming{}},
			Expect:    PayloadEventStream,
			Streaming: true,
		},
		"union": {
			Target: smithy.ShapeTypeUnion,
			Expect: PayloadUnion,
		},
		"streaming blob with length": {
			Target:    smithy.ShapeTypeBlob,
			Traits:    []smithy.Trait{&traits.Streaming{}, &traits.RequiresLength{}},
			Expect:    PayloadStreamingBlobWithLength,
			Streaming: true,
		},
		"streaming blob": {
			Target:    smithy.ShapeTypeBlob,
			Traits:    []smithy.Trait{&traits.Streaming{}},
			Expect:    PayloadStreamingBlob,
			Streaming: true,
		},
		"blob":      {Target: smithy.ShapeTypeBlob, Expect: PayloadBlob},
		"string":    {Target: smithy.ShapeTypeString, Expect: PayloadString},
		"enum":      {Target: smithy.ShapeTypeEnum, Expect: PayloadString},
		"structure": {Target: smithy.ShapeTypeStructure, Expect: PayloadStructure},
		"document":  {Target: smithy.ShapeTypeDocument, Expect: PayloadDocument},
		"integer": {
			Target:    smithy.ShapeTypeInteger,
			ExpectErr: true,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := buildShape(t, func(b *smithy.ModelBuilder, id smithy.ShapeID) {
				b.AddShape(exampleID("Target"), c.Target, c.Traits...)
				b.AddMember(id, "payload", exampleID("Target"), &traits.HTTPPayload{})
			})

			plan, err := ClassifyResponse(s)
			if c.ExpectErr {
				if !errors.Is(err, ErrInvalidModel) {
					t.Fatalf("expected ErrInvalidModel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := c.Expect, plan.PayloadKind; e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
			if e, a := c.Streaming, plan.PayloadKind.IsStreaming(); e != a {
				t.Errorf("expected streaming %v, got %v", e, a)
			}
		})
	}
}

func TestSelectEventStream(t *testing.T) {
	cases := []struct {
		Input, Output bool
		Expect        EventStreamKind
		ExpectErr     bool
	}{
		{Input: true, Output: true, Expect: EventStreamDuplex},
		{Input: true, Expect: EventStreamInput},
		{Output: true, Expect: EventStreamOutput},
		{ExpectErr: true},
	}

	for _, c := range cases {
		kind, err := SelectEventStream(c.Input, c.Output)
		if c.ExpectErr {
			if !errors.Is(err, ErrNoEventStream) {
				t.Errorf("expected ErrNoEventStream, got %v", err)
			}
			continue
		}
		if err != nil {
			t.Errorf("expect no error, got %v", err)
		}
		if e, a := c.Expect, kind; e != a {
			t.Errorf("expected %v, got %v", e, a)
		}
	}
}

func TestDefaultBodyForMethod(t *testing.T) {
	cases := map[string]bool{
		"POST":   true,
		"PUT":    true,
		"PATCH":  true,
		"GET":    false,
		"DELETE": false,
		"HEAD":   false,
	}

	for method, expect := range cases {
		if e, a := expect, DefaultBodyForMethod(method); e != a {
			t.Errorf("%s: expected %v, got %v", method, e, a)
		}
	}
}
