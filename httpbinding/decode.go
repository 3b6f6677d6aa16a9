package httpbinding

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// SplitHeaderListValues splits the values of a header bound to a list into
// the list members. Members may be double quoted, in which case commas and
// escaped quotes within them are kept.
func SplitHeaderListValues(vs []string) ([]string, error) {
	var out []string
	for _, v := range vs {
		parts, err := splitHeaderValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

func splitHeaderValue(v string) ([]string, error) {
	var parts []string
	i := 0
	for {
		i = skipSpace(v, i)

		if i < len(v) && v[i] == '"' {
			var b strings.Builder
			closed := false
			for i++; i < len(v); i++ {
				c := v[i]
				if c == '\\' && i+1 < len(v) {
					i++
					b.WriteByte(v[i])
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(c)
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted header list value %q", v)
			}
			parts = append(parts, b.String())

			i = skipSpace(v, i)
			if i == len(v) {
				return parts, nil
			}
			if v[i] != ',' {
				return nil, fmt.Errorf("invalid header list value %q", v)
			}
			i++
			continue
		}

		j := strings.IndexByte(v[i:], ',')
		if j < 0 {
			return append(parts, strings.TrimSpace(v[i:])), nil
		}
		parts = append(parts, strings.TrimSpace(v[i:i+j]))
		i += j + 1
	}
}

func skipSpace(v string, i int) int {
	for i < len(v) && (v[i] == ' ' || v[i] == '\t') {
		i++
	}
	return i
}

// SplitHTTPDateTimestampHeaderListValues splits the values of a header bound
// to a list of http-date timestamps. Each timestamp contains one comma
// itself, so members are every other comma separated part.
func SplitHTTPDateTimestampHeaderListValues(vs []string) ([]string, error) {
	var out []string
	for _, v := range vs {
		parts := strings.Split(v, ",")
		if len(parts)%2 != 0 {
			return nil, fmt.Errorf("invalid http-date header list value %q", v)
		}
		for i := 0; i < len(parts); i += 2 {
			out = append(out, strings.TrimSpace(parts[i])+", "+strings.TrimSpace(parts[i+1]))
		}
	}
	return out, nil
}

// ParseFloat parses a header, query or label value as a float, accepting
// NaN, Infinity and -Infinity.
func ParseFloat(v string, bits int) (float64, error) {
	switch v {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(v, bits)
}

// PrefixHeaders returns the headers whose name starts with prefix, keyed by
// the remainder of the name. Multiple values are joined with commas. Headers
// named exactly prefix are not included.
func PrefixHeaders(header http.Header, prefix string) map[string]string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var out map[string]string
	for k, vs := range header {
		if len(k) <= len(prefix) || !strings.EqualFold(k[:len(prefix)], prefix) {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k[len(prefix):]] = strings.Join(vs, ", ")
	}
	return out
}
