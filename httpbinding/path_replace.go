package httpbinding

import (
	"bytes"
	"fmt"
)

const (
	uriTokenStart = '{'
	uriTokenStop  = '}'
	uriTokenSkip  = '+'
)

// replacePathElement replaces the {key} or greedy {key+} element of path
// with val. Escape is used to control whether the value will be escaped
// using Amazon path escape style; a greedy element keeps its slashes.
func replacePathElement(path []byte, key, val string, escape bool) ([]byte, error) {
	token := string(uriTokenStart) + key + string(uriTokenStop)
	greedy := string(uriTokenStart) + key + string(uriTokenSkip) + string(uriTokenStop)

	encodeSep := true
	start := bytes.Index(path, []byte(token))
	end := start + len(token)
	if start < 0 {
		// '+' token means do not escape slashes
		encodeSep = false
		start = bytes.Index(path, []byte(greedy))
		end = start + len(greedy)
	}
	if start < 0 {
		return path, fmt.Errorf("invalid path element, %s does not contain %s", path, token)
	}

	if escape {
		val = EscapePath(val, encodeSep)
	}

	out := make([]byte, 0, len(path)-(end-start)+len(val))
	out = append(out, path[:start]...)
	out = append(out, val...)
	out = append(out, path[end:]...)
	return out, nil
}

// EscapePath escapes part of a URL path in Amazon style.
func EscapePath(path string, encodeSep bool) string {
	var buf bytes.Buffer
	for i := 0; i < len(path); i++ {
		c := path[i]
		if noEscape[c] || (c == '/' && !encodeSep) {
			buf.WriteByte(c)
		} else {
			fmt.Fprintf(&buf, "%%%02X", c)
		}
	}
	return buf.String()
}

var noEscape [256]bool

func init() {
	for i := 0; i < len(noEscape); i++ {
		// AWS expects every character except these to be escaped
		noEscape[i] = (i >= 'A' && i <= 'Z') ||
			(i >= 'a' && i <= 'z') ||
			(i >= '0' && i <= '9') ||
			i == '-' ||
			i == '.' ||
			i == '_' ||
			i == '~'
	}
}
