// Package restjson provides the runtime helpers generated aws.protocols#restJson1
// clients use to read error responses.
package restjson

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	smithy "github.com/aws/smithy-go-codegen"
	smithyio "github.com/aws/smithy-go-codegen/io"
	smithyhttp "github.com/aws/smithy-go-codegen/transport/http"
)

// ErrorTypeHeader is the response header a service may use to name the
// modeled error shape.
const ErrorTypeHeader = "X-Amzn-Errortype"

// UnknownError is the code and message reported when a response carries
// neither.
const UnknownError = "Unknown"

// GetErrorInfo extracts the error code and message of a restJson1 error
// response.
//
// The code comes from the X-Amzn-Errortype header, or when readBody is true
// from the __type or code key of the JSON body. Codes are reduced to the
// shape name, so "aws.protocoltests.restjson#FooError:http://internal" is
// reported as "FooError".
//
// When readBody is true the body is consumed and parsed, and the parsed
// document is returned for the typed error deserializer. The response body is
// replaced with the consumed bytes so it can be read again. parsedBody is nil
// when readBody is false or the body is empty.
func GetErrorInfo(response *smithyhttp.Response, readBody bool) (
	code, message string, parsedBody map[string]any, err error,
) {
	code = response.Header.Get(ErrorTypeHeader)

	if readBody && response.Body != nil {
		parsedBody, err = readErrorBody(response)
		if err != nil {
			return "", "", nil, err
		}
	}

	if len(code) == 0 {
		code = lookupString(parsedBody, "__type", "code")
	}
	message = lookupString(parsedBody, "message", "errorMessage")

	code = SanitizeErrorCode(code)
	if len(code) == 0 {
		code = UnknownError
	}
	if len(message) == 0 {
		message = UnknownError
	}
	return code, message, parsedBody, nil
}

func readErrorBody(response *smithyhttp.Response) (map[string]any, error) {
	var buff [1024]byte
	ringBuffer := smithyio.NewRingBuffer(buff[:])

	body, err := io.ReadAll(io.TeeReader(response.Body, ringBuffer))
	if err != nil {
		return nil, &smithy.DeserializationError{
			Err:      fmt.Errorf("failed to read error response body, %w", err),
			Snapshot: ringBuffer.Bytes(),
		}
	}
	response.Body.Close()
	response.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := j.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &smithy.DeserializationError{
			Err:      fmt.Errorf("failed to decode error response body, %w", err),
			Snapshot: ringBuffer.Bytes(),
		}
	}
	return doc, nil
}

// lookupString returns the first string value found under one of names,
// compared case-insensitively.
func lookupString(doc map[string]any, names ...string) string {
	for _, name := range names {
		for k, v := range doc {
			if s, ok := v.(string); ok && strings.EqualFold(k, name) {
				return s
			}
		}
	}
	return ""
}

// SanitizeErrorCode reduces an error code to the shape name, removing any
// namespace prefix and any trailing ":"-separated suffix.
func SanitizeErrorCode(code string) string {
	code, _, _ = strings.Cut(code, ":")
	if i := strings.LastIndexByte(code, '#'); i >= 0 {
		code = code[i+1:]
	}
	return strings.TrimSpace(code)
}

// EncodeParsedBody serializes a body previously parsed by GetErrorInfo back
// to JSON, so the error deserializer reads bytes whether or not the error
// resolver consumed the body.
func EncodeParsedBody(parsedBody map[string]any) ([]byte, error) {
	p, err := j.Marshal(parsedBody)
	if err != nil {
		return nil, &smithy.DeserializationError{
			Err: fmt.Errorf("failed to encode parsed error body, %w", err),
		}
	}
	return p, nil
}
