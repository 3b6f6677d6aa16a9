// Package ptr provides utilities for converting between values and pointers
// in generated code and protocol test fixtures.
package ptr

import "time"

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// ToValue returns the value p points to, or the zero value if p is nil.
func ToValue[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int8 returns a pointer to v.
func Int8(v int8) *int8 { return &v }

// Int16 returns a pointer to v.
func Int16(v int16) *int16 { return &v }

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float32 returns a pointer to v.
func Float32(v float32) *float32 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Time returns a pointer to v.
func Time(v time.Time) *time.Time { return &v }
