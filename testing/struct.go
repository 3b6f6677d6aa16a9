package testing

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// CompareValues compares two values of the same type. NaN floats compare
// equal to each other and unexported fields are compared. Returns an error
// describing the difference if the values are not equal.
//
// Streaming members must be read into memory by the caller first.
func CompareValues(expect, actual interface{}, opts ...cmp.Option) error {
	opts = append([]cmp.Option{
		cmpopts.EquateNaNs(),
		cmp.Exporter(func(reflect.Type) bool { return true }),
	}, opts...)

	if diff := cmp.Diff(expect, actual, opts...); len(diff) != 0 {
		return fmt.Errorf("values mismatch (-expect +actual):\n%s", diff)
	}
	return nil
}

// AssertCompareValues compares two values with CompareValues. Emits a testing
// error, and returns false if the values are not equal.
func AssertCompareValues(t T, expect, actual interface{}, opts ...cmp.Option) bool {
	t.Helper()

	if err := CompareValues(expect, actual, opts...); err != nil {
		t.Errorf("expect values equal, %v", err)
		return false
	}
	return true
}
