// Package sink provides the destinations generated files are written to.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Sink receives generated file content. Implementations must be safe for
// concurrent use.
type Sink interface {
	// WriteFile writes content to the slash separated path relative to the
	// sink's root.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes files below a directory on the local filesystem.
type FilesystemSink struct {
	Root string
	Mode os.FileMode
}

// NewFilesystemSink returns a FilesystemSink rooted at root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644}
}

// WriteFile writes content to path, creating parent directories as needed.
// The file is replaced atomically.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create directories")
	}

	tmp, err := os.CreateTemp(dir, ".smithy-go-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.CombineErrors(werr, cerr); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "write %s", path)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "set file mode")
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "rename %s", path)
	}
	return nil
}

// MemorySink keeps generated files in memory. It is used by tests and by
// the CLI's dry run mode.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: map[string][]byte{}}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), content...)
	return nil
}

// Get returns the content written to path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ValidatePath reports whether path is a clean, relative, slash separated
// path that stays below the sink's root.
func ValidatePath(path string) error {
	switch {
	case len(path) == 0:
		return errors.New("path is empty")
	case filepath.IsAbs(path) || strings.HasPrefix(path, "/"):
		return errors.New("absolute paths not allowed")
	case strings.Contains(path, `\`):
		return errors.New("use / as the path separator")
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if clean := filepath.ToSlash(filepath.Clean(path)); clean != path {
		return fmt.Errorf("path is not clean, expected %q", clean)
	}
	return nil
}
