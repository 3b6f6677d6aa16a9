package io

import (
	"fmt"
	"io"
	"sync"
)

const readChunkSize = 32 * 1024

// SeekableBytesReader makes any reader seekable by retaining the bytes read
// from it. A reader that already implements io.ReadSeeker is used directly.
//
// Seeking relative to the end drains the underlying reader, which is how the
// length of a stream that does not know its own size is measured.
type SeekableBytesReader struct {
	mu sync.Mutex

	src    io.Reader
	seeker io.ReadSeeker

	buf []byte
	pos int64
	eof bool
}

// NewSeekableBytesReader returns a SeekableBytesReader over r.
func NewSeekableBytesReader(r io.Reader) *SeekableBytesReader {
	sr := &SeekableBytesReader{src: r}
	if s, ok := r.(io.ReadSeeker); ok {
		sr.seeker = s
	}
	return sr
}

// Read reads from the current position.
func (r *SeekableBytesReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeker != nil {
		return r.seeker.Read(p)
	}

	for r.pos >= int64(len(r.buf)) && !r.eof {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	if r.pos >= int64(len(r.buf)) {
		return 0, io.EOF
	}

	n := copy(p, r.buf[r.pos:])
	r.pos += int64(n)
	return n, nil
}

// Seek sets the position for the next Read.
func (r *SeekableBytesReader) Seek(offset int64, whence int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeker != nil {
		return r.seeker.Seek(offset, whence)
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		for !r.eof {
			if err := r.fill(); err != nil {
				return 0, err
			}
		}
		abs = int64(len(r.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative position %d", abs)
	}

	r.pos = abs
	return abs, nil
}

// Close closes the underlying reader if it is an io.Closer.
func (r *SeekableBytesReader) Close() error {
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fill reads the next chunk of the source into the buffer.
func (r *SeekableBytesReader) fill() error {
	if r.src == nil {
		r.eof = true
		return nil
	}

	chunk := make([]byte, readChunkSize)
	n, err := r.src.Read(chunk)
	r.buf = append(r.buf, chunk[:n]...)
	if err == io.EOF {
		r.eof = true
		return nil
	}
	return err
}
