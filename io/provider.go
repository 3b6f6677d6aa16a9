package io

import (
	"errors"
	"io"
	"sync"
)

// ErrProviderClosed is returned when writing to a closed BytesProvider.
var ErrProviderClosed = errors.New("bytes provider closed")

// BytesProvider is an in-memory stream of byte chunks. Event stream writers
// push encoded messages into it while the transport reads the request body
// out of it. Writes block while the buffer is full.
//
// It supports one writer and one reader at a time. Chunks written before
// Close remain readable afterwards.
type BytesProvider struct {
	chunks chan []byte
	done   chan struct{}
	once   sync.Once

	cur []byte
}

// NewBytesProvider returns a BytesProvider buffering up to maxChunks
// unread chunks.
func NewBytesProvider(maxChunks int) *BytesProvider {
	if maxChunks < 1 {
		maxChunks = 1
	}
	return &BytesProvider{
		chunks: make(chan []byte, maxChunks),
		done:   make(chan struct{}),
	}
}

// Write queues a copy of p.
func (b *BytesProvider) Write(p []byte) (int, error) {
	select {
	case <-b.done:
		return 0, ErrProviderClosed
	default:
	}

	chunk := append([]byte(nil), p...)
	select {
	case b.chunks <- chunk:
		return len(p), nil
	case <-b.done:
		return 0, ErrProviderClosed
	}
}

// Read reads queued bytes, blocking until a chunk is available. It returns
// io.EOF once the provider is closed and drained.
func (b *BytesProvider) Read(p []byte) (int, error) {
	for len(b.cur) == 0 {
		select {
		case chunk := <-b.chunks:
			b.cur = chunk
		case <-b.done:
			select {
			case chunk := <-b.chunks:
				b.cur = chunk
			default:
				return 0, io.EOF
			}
		}
	}

	n := copy(p, b.cur)
	b.cur = b.cur[n:]
	return n, nil
}

// Close stops accepting writes.
func (b *BytesProvider) Close() error {
	b.once.Do(func() { close(b.done) })
	return nil
}
