package json

import (
	"bytes"
	"testing"
)

func TestEscapeStringBytes(t *testing.T) {
	cases := map[string]struct {
		In     string
		Expect string
	}{
		"plain":          {In: "Seattle", Expect: `"Seattle"`},
		"quote":          {In: `say "hi"`, Expect: `"say \"hi\""`},
		"backslash":      {In: `C:\data`, Expect: `"C:\\data"`},
		"newline":        {In: "a\nb", Expect: `"a\nb"`},
		"control":        {In: "\x01", Expect: `"\u0001"`},
		"html unescaped": {In: "<b>&", Expect: `"<b>&"`},
		"line separator": {In: "\u2028", Expect: `"\u2028"`},
		"invalid utf8":   {In: "\xff", Expect: `"\ufffd"`},
		"multibyte":      {In: "Zürich", Expect: `"Zürich"`},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			escapeStringBytes(&buf, []byte(c.In))
			if e, a := c.Expect, buf.String(); e != a {
				t.Errorf("expected %s, got %s", e, a)
			}
		})
	}
}

func TestEscapeObjectKeys(t *testing.T) {
	jsonEncoder := NewEncoder()
	object := jsonEncoder.Object()

	object.Key("city\"").String("Seattle")
	object.Key("units").String("metric")
	object.Close()

	expected := []byte(`{"city\"":"Seattle","units":"metric"}`)
	actual := object.w.Bytes()
	if !bytes.Equal(expected, actual) {
		t.Errorf("expected %+q, but got %+q", expected, actual)
	}
}
