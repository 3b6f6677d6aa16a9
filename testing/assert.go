package testing

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

// T provides the testing interface for capturing failures with testing assert
// utilities.
type T interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// JSONEqual compares to JSON documents and identifies if the documents contain
// the same values. Returns an error if the two documents are not equal.
func JSONEqual(expectBytes, actualBytes []byte) error {
	var expect interface{}
	if err := json.Unmarshal(expectBytes, &expect); err != nil {
		return fmt.Errorf("failed to unmarshal expected bytes, %v", err)
	}

	var actual interface{}
	if err := json.Unmarshal(actualBytes, &actual); err != nil {
		return fmt.Errorf("failed to unmarshal actual bytes, %v", err)
	}

	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		return fmt.Errorf("JSON mismatch (-expect +actual):\n%s", diff)
	}

	return nil
}

// AssertJSONEqual compares to JSON documents and identifies if the documents
// contain the same values. Emits a testing error, and returns false if the
// documents are not equal.
func AssertJSONEqual(t T, expect, actual []byte) bool {
	t.Helper()

	if err := JSONEqual(expect, actual); err != nil {
		t.Errorf("expect JSON equal, %v", err)
		return false
	}

	return true
}

// BodyEqual compares two message bodies. JSON media types are compared as
// documents, and an empty expected body matches an empty actual body. All
// other media types are compared byte for byte.
func BodyEqual(mediaType string, expect, actual []byte) error {
	if isJSONMediaType(mediaType) && (len(expect) != 0 || len(actual) != 0) {
		return JSONEqual(expect, actual)
	}

	if !bytes.Equal(expect, actual) {
		return fmt.Errorf("body mismatch, expect %q, got %q", expect, actual)
	}
	return nil
}

// AssertBodyEqual compares two message bodies with BodyEqual. Emits a testing
// error, and returns false if the bodies are not equal.
func AssertBodyEqual(t T, mediaType string, expect, actual []byte) bool {
	t.Helper()

	if err := BodyEqual(mediaType, expect, actual); err != nil {
		t.Errorf("expect body equal, %v", err)
		return false
	}

	return true
}

func isJSONMediaType(v string) bool {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
