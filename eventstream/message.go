// Package eventstream implements the event stream wrappers generated clients
// return for operations with streaming union members, and the binary message
// framing those streams are carried in.
package eventstream

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"strconv"
	"time"
)

const (
	preludeLen     = 12
	messageCRCLen  = 4
	maxMessageLen  = 16 * 1024 * 1024
	maxHeaderValue = 1<<15 - 1
)

// header value types of the event stream encoding
const (
	typeTrue byte = iota
	typeFalse
	typeByte
	typeShort
	typeInt
	typeLong
	typeBytes
	typeString
	typeTimestamp
	typeUUID
)

// Reserved header names.
const (
	MessageTypeHeader   = ":message-type"
	EventTypeHeader     = ":event-type"
	ExceptionTypeHeader = ":exception-type"
	ErrorCodeHeader     = ":error-code"
	ErrorMessageHeader  = ":error-message"
	ContentTypeHeader   = ":content-type"
)

// Values of the :message-type header.
const (
	EventMessageType     = "event"
	ExceptionMessageType = "exception"
	ErrorMessageType     = "error"
)

// Header is a message header. Headers of non-string types are decoded to
// their string form.
type Header struct {
	Name  string
	Value string
}

// Message is a single event stream message.
type Message struct {
	Headers []Header
	Payload []byte
}

// Header returns the value of the named header.
func (m Message) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// MarshalBinary encodes the message with its prelude and checksums.
func (m Message) MarshalBinary() ([]byte, error) {
	var headers bytes.Buffer
	for _, h := range m.Headers {
		if len(h.Name) == 0 || len(h.Name) > 255 {
			return nil, fmt.Errorf("invalid header name length %d", len(h.Name))
		}
		if len(h.Value) > maxHeaderValue {
			return nil, fmt.Errorf("header %s value too long", h.Name)
		}
		headers.WriteByte(byte(len(h.Name)))
		headers.WriteString(h.Name)
		headers.WriteByte(typeString)
		binary.Write(&headers, binary.BigEndian, uint16(len(h.Value)))
		headers.WriteString(h.Value)
	}

	total := preludeLen + headers.Len() + len(m.Payload) + messageCRCLen
	if total > maxMessageLen {
		return nil, fmt.Errorf("message length %d exceeds maximum", total)
	}

	buf := make([]byte, 0, total)
	buf = binary.BigEndian.AppendUint32(buf, uint32(total))
	buf = binary.BigEndian.AppendUint32(buf, uint32(headers.Len()))
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	buf = append(buf, headers.Bytes()...)
	buf = append(buf, m.Payload...)
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	return buf, nil
}

// ReadMessage reads one message from r. It returns io.EOF if r is exhausted
// before a message begins.
func ReadMessage(r io.Reader) (Message, error) {
	prelude := make([]byte, preludeLen)
	if _, err := io.ReadFull(r, prelude); err != nil {
		if errors.Is(err, io.EOF) {
			return Message{}, io.EOF
		}
		return Message{}, fmt.Errorf("read message prelude, %w", err)
	}

	total := binary.BigEndian.Uint32(prelude[0:4])
	headersLen := binary.BigEndian.Uint32(prelude[4:8])
	if e, a := binary.BigEndian.Uint32(prelude[8:12]), crc32.ChecksumIEEE(prelude[:8]); e != a {
		return Message{}, fmt.Errorf("message prelude checksum mismatch, expect %x, got %x", e, a)
	}
	if total < preludeLen+messageCRCLen || total > maxMessageLen ||
		headersLen > total-preludeLen-messageCRCLen {
		return Message{}, fmt.Errorf("invalid message lengths, total %d, headers %d", total, headersLen)
	}

	msg := make([]byte, total)
	copy(msg, prelude)
	if _, err := io.ReadFull(r, msg[preludeLen:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Message{}, fmt.Errorf("read message, %w", err)
	}

	crcOffset := total - messageCRCLen
	if e, a := binary.BigEndian.Uint32(msg[crcOffset:]), crc32.ChecksumIEEE(msg[:crcOffset]); e != a {
		return Message{}, fmt.Errorf("message checksum mismatch, expect %x, got %x", e, a)
	}

	headers, err := decodeHeaders(msg[preludeLen : preludeLen+headersLen])
	if err != nil {
		return Message{}, err
	}

	return Message{
		Headers: headers,
		Payload: msg[preludeLen+headersLen : crcOffset],
	}, nil
}

func decodeHeaders(p []byte) ([]Header, error) {
	var headers []Header
	for len(p) > 0 {
		nameLen := int(p[0])
		if len(p) < 1+nameLen+1 {
			return nil, fmt.Errorf("truncated header name")
		}
		name := string(p[1 : 1+nameLen])
		typ := p[1+nameLen]
		p = p[2+nameLen:]

		value, n, err := decodeHeaderValue(typ, p)
		if err != nil {
			return nil, fmt.Errorf("header %s, %w", name, err)
		}
		p = p[n:]

		headers = append(headers, Header{Name: name, Value: value})
	}
	return headers, nil
}

func decodeHeaderValue(typ byte, p []byte) (string, int, error) {
	need := func(n int) error {
		if len(p) < n {
			return fmt.Errorf("truncated header value")
		}
		return nil
	}

	switch typ {
	case typeTrue:
		return "true", 0, nil
	case typeFalse:
		return "false", 0, nil
	case typeByte:
		if err := need(1); err != nil {
			return "", 0, err
		}
		return strconv.Itoa(int(int8(p[0]))), 1, nil
	case typeShort:
		if err := need(2); err != nil {
			return "", 0, err
		}
		return strconv.Itoa(int(int16(binary.BigEndian.Uint16(p)))), 2, nil
	case typeInt:
		if err := need(4); err != nil {
			return "", 0, err
		}
		return strconv.Itoa(int(int32(binary.BigEndian.Uint32(p)))), 4, nil
	case typeLong:
		if err := need(8); err != nil {
			return "", 0, err
		}
		return strconv.FormatInt(int64(binary.BigEndian.Uint64(p)), 10), 8, nil
	case typeTimestamp:
		if err := need(8); err != nil {
			return "", 0, err
		}
		ms := int64(binary.BigEndian.Uint64(p))
		return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano), 8, nil
	case typeUUID:
		if err := need(16); err != nil {
			return "", 0, err
		}
		return hex.EncodeToString(p[:16]), 16, nil
	case typeBytes, typeString:
		if err := need(2); err != nil {
			return "", 0, err
		}
		n := int(binary.BigEndian.Uint16(p))
		if err := need(2 + n); err != nil {
			return "", 0, err
		}
		v := p[2 : 2+n]
		if typ == typeBytes {
			return base64.StdEncoding.EncodeToString(v), 2 + n, nil
		}
		return string(v), 2 + n, nil
	default:
		return "", 0, fmt.Errorf("unknown header value type %d", typ)
	}
}
