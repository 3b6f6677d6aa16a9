package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request provides the HTTP specific request structure generated request
// serializers populate.
type Request struct {
	*http.Request
	stream           io.Reader
	isStreamSeekable bool
	streamStartPos   int64
}

// NewRequest returns a request for method with the path and any literal
// query of uri, the request URI pattern of an operation's http trait. Label
// placeholders are replaced by the httpbinding encoder.
func NewRequest(method, uri string) *Request {
	path, query, _ := strings.Cut(uri, "?")
	return &Request{
		Request: &http.Request{
			Method:        method,
			URL:           &url.URL{Path: path, RawQuery: query},
			Header:        http.Header{},
			ContentLength: -1,
		},
	}
}

// Clone returns a deep copy of the Request for the new context. A reference to
// the Stream is copied, but the underlying stream is not copied.
func (r *Request) Clone() *Request {
	rc := *r
	rc.Request = rc.Request.Clone(context.TODO())
	return &rc
}

// RewindStream will rewind the io.Reader to the relative start position if it is an io.Seeker
func (r *Request) RewindStream() error {
	if r.stream == nil {
		return nil
	}
	if !r.isStreamSeekable {
		return fmt.Errorf("request stream is not seekable")
	}
	_, err := r.stream.(io.Seeker).Seek(r.streamStartPos, io.SeekStart)
	return err
}

// GetStream returns the request stream io.Reader
func (r *Request) GetStream() io.Reader {
	return r.stream
}

// IsStreamSeekable returns whether the stream is seekable.
func (r *Request) IsStreamSeekable() bool {
	return r.isStreamSeekable
}

// SetStream returns a clone of the request with the stream set to the provided reader.
// May return an error if the provided reader is seekable but returns an error.
func (r *Request) SetStream(reader io.Reader) (rc *Request, err error) {
	rc = r.Clone()

	switch v := reader.(type) {
	case io.Seeker:
		rc.isStreamSeekable = true
		n, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return rc, err
		}
		rc.streamStartPos = n
	default:
		rc.isStreamSeekable = false
	}
	rc.stream = reader

	return rc, err
}

// StreamLength returns the number of bytes in the stream from its start
// position, and false if the length cannot be determined without reading the
// stream.
func (r *Request) StreamLength() (size int64, ok bool, err error) {
	switch v := r.stream.(type) {
	case nil:
		return 0, true, nil
	case interface{ Len() int }:
		return int64(v.Len()), true, nil
	}

	if !r.isStreamSeekable {
		return -1, false, nil
	}

	seeker := r.stream.(io.Seeker)
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, false, err
	}
	if _, err := seeker.Seek(r.streamStartPos, io.SeekStart); err != nil {
		return -1, false, err
	}
	return end - r.streamStartPos, true, nil
}

// Build returns a build standard HTTP request value from the Smithy request.
// The content length set on the request is used as is; a negative length is
// sent as unknown.
func (r *Request) Build(ctx context.Context) *http.Request {
	req := r.Request.Clone(ctx)

	if r.stream == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
		return req
	}

	// The transport closes the body; the caller owns the stream.
	req.Body = io.NopCloser(r.stream)
	if req.ContentLength < 0 {
		req.ContentLength = -1
	}

	return req
}
