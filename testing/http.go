package testing

import (
	"net/http"
	"net/url"
	"strings"
)

// QueryItem is a single query string parameter as written on the wire.
type QueryItem struct {
	Key   string
	Value string
}

// ParseRawQuery splits a raw query string into its items, preserving order
// and duplicate keys. Values are unescaped.
func ParseRawQuery(rawQuery string) []QueryItem {
	var items []QueryItem
	for _, part := range strings.Split(rawQuery, "&") {
		if len(part) == 0 {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}
		items = append(items, QueryItem{Key: k, Value: v})
	}
	return items
}

// AssertHasQuery validates that every expected query item is present in the
// actual raw query string.
func AssertHasQuery(t T, expect []QueryItem, rawQuery string) bool {
	t.Helper()

	actual := ParseRawQuery(rawQuery)
	ok := true
	for _, e := range expect {
		if !hasQueryItem(actual, e) {
			t.Errorf("expect query %s=%s, not found in %q", e.Key, e.Value, rawQuery)
			ok = false
		}
	}
	return ok
}

// AssertHasQueryKeys validates that the actual raw query string contains the
// expected keys.
func AssertHasQueryKeys(t T, keys []string, rawQuery string) bool {
	t.Helper()

	actual := ParseRawQuery(rawQuery)
	ok := true
	for _, k := range keys {
		if !hasQueryKey(actual, k) {
			t.Errorf("expect query key %s, not found in %q", k, rawQuery)
			ok = false
		}
	}
	return ok
}

// AssertNotHaveQueryKeys validates that the actual raw query string does not
// contain the forbidden keys.
func AssertNotHaveQueryKeys(t T, keys []string, rawQuery string) bool {
	t.Helper()

	actual := ParseRawQuery(rawQuery)
	ok := true
	for _, k := range keys {
		if hasQueryKey(actual, k) {
			t.Errorf("expect no query key %s, found in %q", k, rawQuery)
			ok = false
		}
	}
	return ok
}

func hasQueryItem(items []QueryItem, item QueryItem) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}

func hasQueryKey(items []QueryItem, key string) bool {
	for _, i := range items {
		if i.Key == key {
			return true
		}
	}
	return false
}

// AssertHasHeader validates that the expected headers are present with the
// expected values. Multiple actual values for one key are compared in their
// comma joined form.
func AssertHasHeader(t T, expect, actual http.Header) bool {
	t.Helper()

	ok := true
	for k, ev := range expect {
		av, found := actual[http.CanonicalHeaderKey(k)]
		if !found {
			t.Errorf("expect header %s, not found", k)
			ok = false
			continue
		}
		if e, a := strings.Join(ev, ", "), strings.Join(av, ", "); e != a {
			t.Errorf("expect header %s value %q, got %q", k, e, a)
			ok = false
		}
	}
	return ok
}

// AssertHasHeaderKeys validates that the actual headers contain the expected
// keys.
func AssertHasHeaderKeys(t T, keys []string, actual http.Header) bool {
	t.Helper()

	ok := true
	for _, k := range keys {
		if _, found := actual[http.CanonicalHeaderKey(k)]; !found {
			t.Errorf("expect header key %s, not found", k)
			ok = false
		}
	}
	return ok
}

// AssertNotHaveHeaderKeys validates that the actual headers do not contain
// the forbidden keys.
func AssertNotHaveHeaderKeys(t T, keys []string, actual http.Header) bool {
	t.Helper()

	ok := true
	for _, k := range keys {
		if _, found := actual[http.CanonicalHeaderKey(k)]; found {
			t.Errorf("expect no header key %s, found", k)
			ok = false
		}
	}
	return ok
}
