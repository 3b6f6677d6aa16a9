package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"
)

// Import paths of the runtime packages emitted code depends on, keyed by
// the name emitted code refers to them with.
var runtimeImports = map[string]string{
	"smithy":        "github.com/aws/smithy-go-codegen",
	"smithyjson":    "github.com/aws/smithy-go-codegen/encoding/json",
	"eventstream":   "github.com/aws/smithy-go-codegen/eventstream",
	"httpbinding":   "github.com/aws/smithy-go-codegen/httpbinding",
	"smithyio":      "github.com/aws/smithy-go-codegen/io",
	"restjson":      "github.com/aws/smithy-go-codegen/protocol/restjson",
	"ptr":           "github.com/aws/smithy-go-codegen/ptr",
	"smithytesting": "github.com/aws/smithy-go-codegen/testing",
	"smithytime":    "github.com/aws/smithy-go-codegen/time",
	"smithyhttp":    "github.com/aws/smithy-go-codegen/transport/http",
}

// Writer accumulates the source of one generated Go file. Indentation is
// left to the formatter run by Bytes.
type Writer struct {
	pkg     string
	imports map[string]string // path -> alias, empty for none
	body    bytes.Buffer
}

// NewWriter returns a Writer for a file of package pkg.
func NewWriter(pkg string) *Writer {
	return &Writer{pkg: pkg, imports: map[string]string{}}
}

// AddImport adds a standard library import, or a runtime package by the
// name emitted code refers to it with.
func (w *Writer) AddImport(names ...string) {
	for _, name := range names {
		if path, ok := runtimeImports[name]; ok {
			alias := name
			if path[strings.LastIndex(path, "/")+1:] == name {
				alias = ""
			}
			w.imports[path] = alias
			continue
		}
		w.imports[name] = ""
	}
}

// Write writes a formatted line.
func (w *Writer) Write(format string, args ...any) {
	if len(args) == 0 {
		w.body.WriteString(format)
	} else {
		fmt.Fprintf(&w.body, format, args...)
	}
	w.body.WriteByte('\n')
}

// Append copies the imports and body of o to the end of w.
func (w *Writer) Append(o *Writer) {
	for path, alias := range o.imports {
		w.imports[path] = alias
	}
	w.body.Write(o.body.Bytes())
}

// Len returns the number of body bytes written.
func (w *Writer) Len() int {
	return w.body.Len()
}

// Source returns the unformatted file content.
func (w *Writer) Source() []byte {
	var src bytes.Buffer
	src.WriteString("// Code generated by smithy-go-codegen DO NOT EDIT.\n\n")
	fmt.Fprintf(&src, "package %s\n\n", w.pkg)

	if len(w.imports) != 0 {
		paths := make([]string, 0, len(w.imports))
		for p := range w.imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		src.WriteString("import (\n")
		for _, p := range paths {
			if alias := w.imports[p]; len(alias) != 0 {
				fmt.Fprintf(&src, "%s %q\n", alias, p)
			} else {
				fmt.Fprintf(&src, "%q\n", p)
			}
		}
		src.WriteString(")\n\n")
	}

	src.Write(w.body.Bytes())
	return src.Bytes()
}

// Bytes returns the gofmt formatted file content. Imports are grouped but
// never added or removed, so every import must be declared with AddImport.
func (w *Writer) Bytes(filename string) ([]byte, error) {
	src := w.Source()
	out, err := imports.Process(filename, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", filename)
	}
	return out, nil
}
