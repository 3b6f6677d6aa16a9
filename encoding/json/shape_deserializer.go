package json

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	smithy "github.com/aws/smithy-go-codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
)

// ShapeDeserializer implements unmarshaling of JSON into Smithy shapes.
type ShapeDeserializer struct {
	codec *Codec
	dec   *json.Decoder
	head  stack

	// one token of lookahead, used to detect null member values
	peeked  json.Token
	hasPeek bool
}

// structFrame is an open JSON object being read as a structure or union.
type structFrame struct {
	schema *smithy.Schema
	top    bool
}

// NewShapeDeserializer returns a deserializer over the JSON document p using
// the default codec settings.
func NewShapeDeserializer(p []byte) *ShapeDeserializer {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	return &ShapeDeserializer{codec: &Codec{}, dec: dec}
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

func (d *ShapeDeserializer) token() (json.Token, error) {
	if d.hasPeek {
		tok := d.peeked
		d.peeked, d.hasPeek = nil, false
		return tok, nil
	}
	return d.dec.Token()
}

func (d *ShapeDeserializer) peek() (json.Token, error) {
	if !d.hasPeek {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		d.peeked, d.hasPeek = tok, true
	}
	return d.peeked, nil
}

func (d *ShapeDeserializer) more() bool {
	if d.hasPeek {
		delim, ok := d.peeked.(json.Delim)
		return !ok || (delim != '}' && delim != ']')
	}
	return d.dec.More()
}

// readNull consumes the next value and returns true if it is null.
func (d *ShapeDeserializer) readNull() (bool, error) {
	tok, err := d.peek()
	if err != nil {
		return false, err
	}
	if tok != nil {
		return false, nil
	}
	_, err = d.token()
	return true, err
}

func (d *ShapeDeserializer) expectDelim(e json.Delim) error {
	tok, err := d.token()
	if err != nil {
		return err
	}

	if a, ok := tok.(json.Delim); ok {
		if e != a {
			return fmt.Errorf("expect %s, got %s", e, a)
		}
		return nil
	}

	return fmt.Errorf("expect delim, got %T", tok)
}

func (d *ShapeDeserializer) ReadInt8(s *smithy.Schema, v *int8) error {
	n, err := d.readInt(math.MinInt8, math.MaxInt8)
	*v = int8(n)
	return err
}

func (d *ShapeDeserializer) ReadInt16(s *smithy.Schema, v *int16) error {
	n, err := d.readInt(math.MinInt16, math.MaxInt16)
	*v = int16(n)
	return err
}

func (d *ShapeDeserializer) ReadInt32(s *smithy.Schema, v *int32) error {
	n, err := d.readInt(math.MinInt32, math.MaxInt32)
	*v = int32(n)
	return err
}

func (d *ShapeDeserializer) ReadInt64(s *smithy.Schema, v *int64) error {
	n, err := d.readInt(math.MinInt64, math.MaxInt64)
	*v = n
	return err
}

func (d *ShapeDeserializer) ReadInt8Ptr(s *smithy.Schema, v **int8) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(int8)
	}
	return d.ReadInt8(s, *v)
}

func (d *ShapeDeserializer) ReadInt16Ptr(s *smithy.Schema, v **int16) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(int16)
	}
	return d.ReadInt16(s, *v)
}

func (d *ShapeDeserializer) ReadInt32Ptr(s *smithy.Schema, v **int32) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(int32)
	}
	return d.ReadInt32(s, *v)
}

func (d *ShapeDeserializer) ReadInt64Ptr(s *smithy.Schema, v **int64) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(int64)
	}
	return d.ReadInt64(s, *v)
}

func (d *ShapeDeserializer) readInt(min, max int64) (int64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}

	num, ok := tok.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", tok)
	}

	n, err := num.Int64()
	if err != nil {
		return 0, err
	}

	if n < min || n > max {
		return 0, fmt.Errorf("int %d exceeds range [%d, %d]", n, min, max)
	}

	return n, nil
}

func (d *ShapeDeserializer) ReadFloat32(s *smithy.Schema, v *float32) error {
	n, err := d.readFloat()
	*v = float32(n)
	return err
}

func (d *ShapeDeserializer) ReadFloat64(s *smithy.Schema, v *float64) error {
	n, err := d.readFloat()
	*v = n
	return err
}

func (d *ShapeDeserializer) ReadFloat32Ptr(s *smithy.Schema, v **float32) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(float32)
	}
	return d.ReadFloat32(s, *v)
}

func (d *ShapeDeserializer) ReadFloat64Ptr(s *smithy.Schema, v **float64) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(float64)
	}
	return d.ReadFloat64(s, *v)
}

func (d *ShapeDeserializer) readFloat() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}

	switch v := tok.(type) {
	case json.Number:
		return v.Float64()
	case string:
		switch {
		case strings.EqualFold(v, "NaN"):
			return math.NaN(), nil
		case strings.EqualFold(v, "Infinity"):
			return math.Inf(1), nil
		case strings.EqualFold(v, "-Infinity"):
			return math.Inf(-1), nil
		default:
			return 0, fmt.Errorf("unexpected string value for float: %s", v)
		}
	default:
		return 0, fmt.Errorf("expected number, got %T", tok)
	}
}

func (d *ShapeDeserializer) ReadBool(s *smithy.Schema, v *bool) error {
	tok, err := d.token()
	if err != nil {
		return err
	}

	b, ok := tok.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", tok)
	}

	*v = b
	return nil
}

func (d *ShapeDeserializer) ReadBoolPtr(s *smithy.Schema, v **bool) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(bool)
	}
	return d.ReadBool(s, *v)
}

func (d *ShapeDeserializer) ReadString(s *smithy.Schema, v *string) error {
	str, err := d.readString()
	if err != nil {
		return err
	}

	*v = str
	return nil
}

func (d *ShapeDeserializer) readString() (string, error) {
	tok, err := d.token()
	if err != nil {
		return "", err
	}

	str, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", tok)
	}
	return str, nil
}

func (d *ShapeDeserializer) ReadStringPtr(s *smithy.Schema, v **string) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(string)
	}
	return d.ReadString(s, *v)
}

func (d *ShapeDeserializer) ReadBlob(s *smithy.Schema, v *[]byte) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}

	str, err := d.readString()
	if err != nil {
		return err
	}

	p, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return fmt.Errorf("failed to base64 decode blob, %w", err)
	}

	*v = p
	return nil
}

func (d *ShapeDeserializer) ReadTime(s *smithy.Schema, v *time.Time) error {
	f := d.codec.timestampFormat(s)
	if f == smithytime.EpochSeconds {
		n, err := d.readFloat()
		if err != nil {
			return err
		}
		*v = smithytime.ParseEpochSeconds(n)
		return nil
	}

	str, err := d.readString()
	if err != nil {
		return err
	}

	t, err := smithytime.ParseString(str, f)
	if err != nil {
		return err
	}

	*v = t
	return nil
}

func (d *ShapeDeserializer) ReadTimePtr(s *smithy.Schema, v **time.Time) error {
	if null, err := d.readNull(); null || err != nil {
		*v = nil
		return err
	}
	if *v == nil {
		*v = new(time.Time)
	}
	return d.ReadTime(s, *v)
}

func (d *ShapeDeserializer) ReadList(s *smithy.Schema) error {
	return d.expectDelim('[')
}

func (d *ShapeDeserializer) ReadListItem(s *smithy.Schema) (bool, error) {
	if !d.more() {
		return false, d.expectDelim(']')
	}

	return true, nil
}

func (d *ShapeDeserializer) ReadMap(s *smithy.Schema) error {
	return d.expectDelim('{')
}

func (d *ShapeDeserializer) ReadMapKey(s *smithy.Schema) (string, bool, error) {
	if !d.more() {
		return "", false, d.expectDelim('}')
	}

	key, err := d.readString()
	if err != nil {
		return "", false, err
	}

	return key, true, nil
}

func (d *ShapeDeserializer) ReadStruct(s *smithy.Schema) error {
	if err := d.expectDelim('{'); err != nil {
		return err
	}

	d.head.Push(&structFrame{schema: s, top: d.head.Len() == 0})
	return nil
}

func (d *ShapeDeserializer) ReadStructMember() (*smithy.Schema, error) {
	frame, ok := d.head.Top().(*structFrame)
	if !ok {
		return nil, fmt.Errorf("ReadStructMember called without ReadStruct")
	}

	for {
		if !d.more() {
			d.head.Pop()
			return nil, d.expectDelim('}')
		}

		key, err := d.readString()
		if err != nil {
			return nil, err
		}

		member := d.lookupMember(frame, key)
		if member == nil {
			if err := d.skip(); err != nil {
				return nil, err
			}
			continue
		}

		// null is the same as the member not being present
		null, err := d.readNull()
		if err != nil {
			return nil, err
		}
		if null {
			continue
		}

		return member, nil
	}
}

func (d *ShapeDeserializer) lookupMember(frame *structFrame, key string) *smithy.Schema {
	for _, m := range frame.schema.Members() {
		if d.codec.memberName(m) != key {
			continue
		}
		if frame.top && d.codec.SkipHTTPBindings && httpBound(m) {
			return nil
		}
		return m
	}
	return nil
}

// ReadUnion opens the union object and returns the schema of the variant
// that is set, or nil if no known variant is set. The caller reads the
// variant value and then calls ReadStructMember, which closes the union.
func (d *ShapeDeserializer) ReadUnion(s *smithy.Schema) (*smithy.Schema, error) {
	if err := d.ReadStruct(s); err != nil {
		return nil, err
	}
	return d.ReadStructMember()
}

func (d *ShapeDeserializer) ReadDocument(s *smithy.Schema, v *any) error {
	doc, err := d.readDocument()
	if err != nil {
		return err
	}

	*v = doc
	return nil
}

func (d *ShapeDeserializer) readDocument() (any, error) {
	tok, err := d.token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // nil, bool, string or json.Number
	}

	switch delim {
	case '{':
		m := map[string]any{}
		for d.more() {
			key, err := d.readString()
			if err != nil {
				return nil, err
			}
			if m[key], err = d.readDocument(); err != nil {
				return nil, err
			}
		}
		return m, d.expectDelim('}')
	case '[':
		l := []any{}
		for d.more() {
			e, err := d.readDocument()
			if err != nil {
				return nil, err
			}
			l = append(l, e)
		}
		return l, d.expectDelim(']')
	default:
		return nil, fmt.Errorf("unexpected delimiter: %v", delim)
	}
}

// Skip discards the next value.
func (d *ShapeDeserializer) Skip() error {
	return d.skip()
}

// used to skip over a struct member that we didn't have a schema for, though
// it also calls itself
func (d *ShapeDeserializer) skip() error {
	tok, err := d.token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for d.more() {
				if _, err := d.token(); err != nil { // the key
					return err
				}
				if err := d.skip(); err != nil { // the value
					return err
				}
			}
			_, err := d.token() // the '}'
			return err
		case '[':
			for d.more() {
				if err := d.skip(); err != nil {
					return err
				}
			}
			_, err := d.token() // the ']'
			return err
		default:
			return fmt.Errorf("unexpected delimiter: %v", v)
		}
	default:
		return nil // scalar, don't have to do anything else
	}
}
