package httpbinding

import (
	"math"
	"math/big"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

func TestEncoder(t *testing.T) {
	actual := &http.Request{
		Header: http.Header{
			"custom-user-header": {"someValue"},
		},
		URL: &url.URL{
			Path:     "/some/{pathKeyOne}/{pathKeyTwo}",
			RawQuery: "someExistingKeys=foobar",
		},
	}

	expected := &http.Request{
		Header: map[string][]string{
			"custom-user-header": {"someValue"},
			"X-Amzn-Header-Foo":  {"someValue"},
			"X-Amzn-Meta-Foo":    {"someValue"},
		},
		URL: &url.URL{
			Path:     "/some/someValue/path",
			RawPath:  "/some/someValue/path",
			RawQuery: "someExistingKeys=foobar&someKey=someValue&someKey=otherValue",
		},
	}

	encoder, err := NewEncoder(actual.URL.Path, actual.URL.RawQuery, actual.Header)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Headers
	encoder.AddHeader("x-amzn-header-foo").String("someValue")
	encoder.Headers("x-amzn-meta-").AddHeader("foo").String("someValue")

	// Query
	encoder.SetQuery("someKey").String("someValue")
	encoder.AddQuery("someKey").String("otherValue")

	// URI
	if err := encoder.SetURI("pathKeyOne").String("someValue"); err != nil {
		t.Errorf("expected no err, but got %v", err)
	}

	// URI
	if err := encoder.SetURI("pathKeyTwo").String("path"); err != nil {
		t.Errorf("expected no err, but got %v", err)
	}

	if actual, err = encoder.Encode(actual); err != nil {
		t.Errorf("expected no err, but got %v", err)
	}

	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, but got %v", expected, actual)
	}
}

func TestEncoderURI(t *testing.T) {
	cases := map[string]struct {
		path          string
		set           func(*Encoder) error
		expectPath    string
		expectRawPath string
		expectErr     bool
	}{
		"label escaped": {
			path:          "/things/{id}",
			set:           func(e *Encoder) error { return e.SetURI("id").String("a b/c") },
			expectPath:    "/things/a b/c",
			expectRawPath: "/things/a%20b%2Fc",
		},
		"greedy label keeps slashes": {
			path:          "/objects/{key+}",
			set:           func(e *Encoder) error { return e.SetURI("key").String("a/b c") },
			expectPath:    "/objects/a/b c",
			expectRawPath: "/objects/a/b%20c",
		},
		"label prefix of another label": {
			path:          "/{identifier}/{id}",
			set:           func(e *Encoder) error { return e.SetURI("id").Integer(7) },
			expectPath:    "/{identifier}/7",
			expectRawPath: "/{identifier}/7",
		},
		"float label": {
			path:          "/n/{v}",
			set:           func(e *Encoder) error { return e.SetURI("v").Double(math.Inf(1)) },
			expectPath:    "/n/Infinity",
			expectRawPath: "/n/Infinity",
		},
		"missing label": {
			path:      "/things",
			set:       func(e *Encoder) error { return e.SetURI("id").String("x") },
			expectErr: true,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			encoder, err := NewEncoder(c.path, "", http.Header{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			err = c.set(encoder)
			if c.expectErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			req := &http.Request{URL: &url.URL{}}
			req, _ = encoder.Encode(req)
			if e, a := c.expectPath, req.URL.Path; e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
			if e, a := c.expectRawPath, req.URL.RawPath; e != a {
				t.Errorf("expected %v, got %v", e, a)
			}
		})
	}
}

func TestEncoderQueryAndHeaderValues(t *testing.T) {
	encoder, err := NewEncoder("/", "", http.Header{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	encoder.SetQuery("s").String("a b+c")
	encoder.SetQuery("f").Double(math.NaN())
	encoder.SetQuery("b").Blob([]byte("hi"))
	encoder.SetQuery("d").BigDecimal(big.NewFloat(2))

	encoder.SetHeader("X-Float").Float(1.5)
	encoder.SetHeader("X-Bool").Boolean(true)
	encoder.AddHeader("X-List").String("a")
	encoder.AddHeader("X-List").String(QuoteHeaderListValue(`b,"c"`))
	encoder.SetHeader("X-Big").BigInteger(big.NewInt(-12))

	req, _ := encoder.Encode(&http.Request{URL: &url.URL{}})

	if e, a := "b=aGk%3D&d=2&f=NaN&s=a%20b%2Bc", req.URL.RawQuery; e != a {
		t.Errorf("expected %v, got %v", e, a)
	}

	expectHeader := http.Header{
		"X-Float": {"1.5"},
		"X-Bool":  {"true"},
		"X-List":  {"a", `"b,\"c\""`},
		"X-Big":   {"-12"},
	}
	if !reflect.DeepEqual(expectHeader, req.Header) {
		t.Errorf("expected %v, got %v", expectHeader, req.Header)
	}

	if !encoder.HasHeader("x-bool") {
		t.Errorf("expected X-Bool header to be set")
	}
	if !encoder.HasQuery("s") || encoder.HasQuery("missing") {
		t.Errorf("expected only set query keys to be reported")
	}
}
