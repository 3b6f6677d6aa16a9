package http

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return e.code }

func TestResponseError(t *testing.T) {
	resp := &Response{Response: &http.Response{StatusCode: 404}}
	err := error(&ResponseError{Response: resp, Err: &codedError{code: "NoSuchCity"}})

	var rerr *ResponseError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ResponseError, got %T", err)
	}
	if e, a := 404, rerr.HTTPStatusCode(); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
	if rerr.HTTPResponse() != resp {
		t.Errorf("expected the wrapped response")
	}

	var cerr *codedError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected wrapped error to unwrap")
	}
	if e, a := "StatusCode: 404, NoSuchCity", err.Error(); !strings.Contains(a, e) {
		t.Errorf("expected %q in %q", e, a)
	}
}
