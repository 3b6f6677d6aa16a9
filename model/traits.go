package model

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

// decodeTrait converts a trait value from the AST into its trait type. The
// returned trait is nil for traits the generator does not use.
func decodeTrait(id string, raw json.RawMessage) (smithy.Trait, error) {
	switch id {
	case "smithy.api#http":
		var v struct {
			Method string `json:"method"`
			URI    string `json:"uri"`
			Code   int    `json:"code"`
		}
		if err := unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v.Code == 0 {
			v.Code = 200
		}
		return &traits.HTTP{Method: v.Method, URI: v.URI, Code: v.Code}, nil

	case "smithy.api#httpError":
		var code int
		if err := unmarshal(raw, &code); err != nil {
			return nil, err
		}
		return &traits.HTTPError{Code: code}, nil

	case "smithy.api#error":
		s, err := stringTrait(raw)
		return &traits.Error{Kind: s}, err
	case "smithy.api#httpHeader":
		s, err := stringTrait(raw)
		return &traits.HTTPHeader{Name: s}, err
	case "smithy.api#httpQuery":
		s, err := stringTrait(raw)
		return &traits.HTTPQuery{Name: s}, err
	case "smithy.api#httpPrefixHeaders":
		s, err := stringTrait(raw)
		return &traits.HTTPPrefixHeaders{Prefix: s}, err
	case "smithy.api#jsonName":
		s, err := stringTrait(raw)
		return &traits.JSONName{Name: s}, err
	case "smithy.api#mediaType":
		s, err := stringTrait(raw)
		return &traits.MediaType{Type: s}, err
	case "smithy.api#timestampFormat":
		s, err := stringTrait(raw)
		return &traits.TimestampFormat{Format: s}, err
	case "smithy.api#documentation":
		s, err := stringTrait(raw)
		return &traits.Documentation{Value: s}, err

	case "smithy.api#endpoint":
		var v struct {
			HostPrefix string `json:"hostPrefix"`
		}
		err := unmarshal(raw, &v)
		return &traits.Endpoint{HostPrefix: v.HostPrefix}, err
	case "smithy.api#requestCompression":
		var v struct {
			Encodings []string `json:"encodings"`
		}
		err := unmarshal(raw, &v)
		return &traits.RequestCompression{Encodings: v.Encodings}, err

	case "aws.protocols#restJson1":
		var v struct {
			HTTP      []string `json:"http"`
			EventHTTP []string `json:"eventStreamHttp"`
		}
		err := unmarshal(raw, &v)
		return &traits.RestJSON1{HTTP: v.HTTP, EventHTTP: v.EventHTTP}, err

	case "smithy.test#httpRequestTests":
		var cases []traits.HTTPRequestTestCase
		err := unmarshal(raw, &cases)
		return &traits.HTTPRequestTests{Cases: cases}, err
	case "smithy.test#httpResponseTests":
		var cases []traits.HTTPResponseTestCase
		err := unmarshal(raw, &cases)
		return &traits.HTTPResponseTests{Cases: cases}, err
	}

	if t, ok := annotationTraits[id]; ok {
		return t, nil
	}
	return nil, nil
}

// annotationTraits are traits without a value.
var annotationTraits = map[string]smithy.Trait{
	"smithy.api#httpLabel":            &traits.HTTPLabel{},
	"smithy.api#httpPayload":          &traits.HTTPPayload{},
	"smithy.api#httpQueryParams":      &traits.HTTPQueryParams{},
	"smithy.api#httpResponseCode":     &traits.HTTPResponseCode{},
	"smithy.api#httpChecksumRequired": &traits.HTTPChecksumRequired{},
	"smithy.api#sensitive":            &traits.Sensitive{},
	"smithy.api#required":             &traits.Required{},
	"smithy.api#eventHeader":          &traits.EventHeader{},
	"smithy.api#eventPayload":         &traits.EventPayload{},
	"smithy.api#streaming":            &traits.Streaming{},
	"smithy.api#requiresLength":       &traits.RequiresLength{},
	"smithy.api#idempotencyToken":     &traits.IdempotencyToken{},
	"smithy.api#hostLabel":            &traits.HostLabel{},
}

func stringTrait(raw json.RawMessage) (string, error) {
	var s string
	err := unmarshal(raw, &s)
	return s, err
}

// unmarshal decodes numbers as json.Number so fixture params keep their
// exact literal.
func unmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode trait value")
	}
	return nil
}
