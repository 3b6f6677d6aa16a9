package testing

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	errors []string
}

func (r *recorder) Error(args ...interface{}) { r.errors = append(r.errors, fmt.Sprint(args...)) }
func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}
func (r *recorder) Helper() {}

func TestParseRawQuery(t *testing.T) {
	actual := ParseRawQuery("a=1&b=x%20y&a=2&flag&=")
	expect := []QueryItem{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "x y"},
		{Key: "a", Value: "2"},
		{Key: "flag", Value: ""},
		{Key: "", Value: ""},
	}
	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		t.Errorf("expect query items to match\n%s", diff)
	}
}

func TestAssertQuery(t *testing.T) {
	const rawQuery = "a=1&a=2&b=x%2Fy"

	r := &recorder{}
	if !AssertHasQuery(r, []QueryItem{{"a", "2"}, {"b", "x/y"}}, rawQuery) {
		t.Errorf("expect query to match, %v", r.errors)
	}
	if AssertHasQuery(r, []QueryItem{{"a", "3"}}, rawQuery) {
		t.Errorf("expect missing query item to fail")
	}
	if !AssertHasQueryKeys(r, []string{"a", "b"}, rawQuery) {
		t.Errorf("expect query keys to match")
	}
	if AssertNotHaveQueryKeys(r, []string{"b"}, rawQuery) {
		t.Errorf("expect forbidden query key to fail")
	}
	if e, a := 2, len(r.errors); e != a {
		t.Errorf("expect %v errors, got %v", e, a)
	}
}

func TestAssertHeader(t *testing.T) {
	actual := http.Header{}
	actual.Add("X-Foo", "a")
	actual.Add("X-Foo", "b")
	actual.Set("Content-Type", "application/json")

	r := &recorder{}
	if !AssertHasHeader(r, http.Header{"x-foo": {"a, b"}}, actual) {
		t.Errorf("expect header to match, %v", r.errors)
	}
	if AssertHasHeader(r, http.Header{"Content-Type": {"text/plain"}}, actual) {
		t.Errorf("expect mismatched header to fail")
	}
	if !AssertHasHeaderKeys(r, []string{"content-type"}, actual) {
		t.Errorf("expect header keys to match")
	}
	if AssertNotHaveHeaderKeys(r, []string{"X-Foo"}, actual) {
		t.Errorf("expect forbidden header key to fail")
	}
	if e, a := 2, len(r.errors); e != a {
		t.Errorf("expect %v errors, got %v", e, a)
	}
}
