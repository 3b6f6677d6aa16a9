package restjson

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	smithy "github.com/aws/smithy-go-codegen"
	smithyhttp "github.com/aws/smithy-go-codegen/transport/http"
	"github.com/google/go-cmp/cmp"
)

func newResponse(header http.Header, body string) *smithyhttp.Response {
	return &smithyhttp.Response{Response: &http.Response{
		StatusCode: 400,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}}
}

func TestGetErrorInfo(t *testing.T) {
	cases := map[string]struct {
		Header        http.Header
		Body          string
		ReadBody      bool
		ExpectCode    string
		ExpectMessage string
		ExpectParsed  bool
	}{
		"header code": {
			Header:        http.Header{"X-Amzn-Errortype": {"FooError"}},
			Body:          `{"message":"hi"}`,
			ReadBody:      true,
			ExpectCode:    "FooError",
			ExpectMessage: "hi",
			ExpectParsed:  true,
		},
		"header wins over body": {
			Header:        http.Header{"X-Amzn-Errortype": {"FooError"}},
			Body:          `{"__type":"BarError"}`,
			ReadBody:      true,
			ExpectCode:    "FooError",
			ExpectMessage: UnknownError,
			ExpectParsed:  true,
		},
		"type key": {
			Header:        http.Header{},
			Body:          `{"__type":"aws.protocoltests.restjson#FooError","Message":"upper"}`,
			ReadBody:      true,
			ExpectCode:    "FooError",
			ExpectMessage: "upper",
			ExpectParsed:  true,
		},
		"code key": {
			Header:        http.Header{},
			Body:          `{"code":"FooError:http://internal.amazon.com/coral/com.amazon.coral.validate/","errorMessage":"m"}`,
			ReadBody:      true,
			ExpectCode:    "FooError",
			ExpectMessage: "m",
			ExpectParsed:  true,
		},
		"body not read": {
			Header:        http.Header{"X-Amzn-Errortype": {"ns#FooError"}},
			Body:          `raw payload`,
			ExpectCode:    "FooError",
			ExpectMessage: UnknownError,
		},
		"empty body": {
			Header:        http.Header{},
			ReadBody:      true,
			ExpectCode:    UnknownError,
			ExpectMessage: UnknownError,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			resp := newResponse(c.Header, c.Body)

			code, message, parsed, err := GetErrorInfo(resp, c.ReadBody)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if e, a := c.ExpectCode, code; e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
			if e, a := c.ExpectMessage, message; e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
			if e, a := c.ExpectParsed, parsed != nil; e != a {
				t.Errorf("expected parsed body %v, got %v", e, a)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if e, a := c.Body, string(body); e != a {
				t.Errorf("expected body to be readable again, got %q", a)
			}
		})
	}
}

func TestGetErrorInfoMalformedBody(t *testing.T) {
	_, _, _, err := GetErrorInfo(newResponse(http.Header{}, `{"__type":`), true)

	var derr *smithy.DeserializationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected deserialization error, got %v", err)
	}
	if e, a := `{"__type":`, string(derr.Snapshot); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestEncodeParsedBody(t *testing.T) {
	_, _, parsed, err := GetErrorInfo(newResponse(http.Header{}, `{"__type":"FooError","count":12345678901234567890,"nested":{"a":[1,true,null]}}`), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	body, err := EncodeParsedBody(parsed)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expect := `{"__type":"FooError","count":12345678901234567890,"nested":{"a":[1,true,null]}}`
	if diff := cmp.Diff(expect, string(body)); len(diff) != 0 {
		t.Errorf("expected re-encoded body to match\n%s", diff)
	}
}

func TestSanitizeErrorCode(t *testing.T) {
	cases := map[string]string{
		"FooError":                   "FooError",
		"ns#FooError":                "FooError",
		"FooError:http://amazon.com": "FooError",
		"a.b#FooError:extra":         "FooError",
		"":                           "",
	}
	for input, expect := range cases {
		if e, a := expect, SanitizeErrorCode(input); e != a {
			t.Errorf("%q: expected %v, got %v", input, e, a)
		}
	}
}
