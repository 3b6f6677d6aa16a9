package codegen

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/aws/smithy-go-codegen/codegen/sink"
)

// WriterDelegator hands out one Writer per generated file.
type WriterDelegator struct {
	pkg string

	mu      sync.Mutex
	writers map[string]*Writer
}

// NewWriterDelegator returns a WriterDelegator for files of package pkg.
func NewWriterDelegator(pkg string) *WriterDelegator {
	return &WriterDelegator{pkg: pkg, writers: map[string]*Writer{}}
}

// UseFileWriter calls fn with the Writer for filename, creating it on first
// use.
func (d *WriterDelegator) UseFileWriter(filename string, fn func(*Writer)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.writers[filename]
	if !ok {
		w = NewWriter(d.pkg)
		d.writers[filename] = w
	}
	fn(w)
}

// Filenames returns the files written so far in sorted order.
func (d *WriterDelegator) Filenames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.writers))
	for name := range d.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush formats every file and writes the non-empty ones to s.
func (d *WriterDelegator) Flush(ctx context.Context, s sink.Sink) error {
	for _, name := range d.Filenames() {
		w := d.writers[name]
		if w.Len() == 0 {
			continue
		}

		content, err := w.Bytes(name)
		if err != nil {
			return err
		}
		if err := s.WriteFile(ctx, name, content); err != nil {
			return errors.Wrapf(err, "write %s", name)
		}
	}
	return nil
}
