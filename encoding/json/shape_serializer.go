package json

import (
	"bytes"
	"encoding/json"
	"maps"
	"math"
	"math/big"
	"slices"
	"time"

	smithy "github.com/aws/smithy-go-codegen"
	smithytime "github.com/aws/smithy-go-codegen/time"
)

// ShapeSerializer implements marshaling of Smithy shapes to JSON.
type ShapeSerializer struct {
	codec *Codec
	root  *Encoder
	head  stack
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

// objectFrame is an open JSON object: a structure, map or union.
type objectFrame struct {
	obj *Object

	// set for the outermost structure only
	top bool

	// pending key set by WriteKey or WriteUnion
	key    string
	hasKey bool
}

// value returns the encoder for the next value, keyed by member name when
// inside an object. The second return is false if the member is not part of
// the document.
func (ss *ShapeSerializer) value(s *smithy.Schema) (Value, bool) {
	switch f := ss.head.Top().(type) {
	case *objectFrame:
		if f.hasKey {
			f.hasKey = false
			return f.obj.Key(f.key), true
		}
		if f.top && ss.codec.SkipHTTPBindings && httpBound(s) {
			return Value{}, false
		}
		return f.obj.Key(ss.codec.memberName(s)), true
	case *Array:
		return f.Value(), true
	default:
		return ss.root.Value, true
	}
}

func (ss *ShapeSerializer) Bytes() []byte {
	return ss.root.Bytes()
}

func (ss *ShapeSerializer) WriteInt8Ptr(s *smithy.Schema, v *int8) {
	if v != nil {
		ss.WriteInt8(s, *v)
	}
}

func (ss *ShapeSerializer) WriteInt16Ptr(s *smithy.Schema, v *int16) {
	if v != nil {
		ss.WriteInt16(s, *v)
	}
}

func (ss *ShapeSerializer) WriteInt32Ptr(s *smithy.Schema, v *int32) {
	if v != nil {
		ss.WriteInt32(s, *v)
	}
}

func (ss *ShapeSerializer) WriteInt64Ptr(s *smithy.Schema, v *int64) {
	if v != nil {
		ss.WriteInt64(s, *v)
	}
}

func (ss *ShapeSerializer) WriteFloat32Ptr(s *smithy.Schema, v *float32) {
	if v != nil {
		ss.WriteFloat32(s, *v)
	}
}

func (ss *ShapeSerializer) WriteFloat64Ptr(s *smithy.Schema, v *float64) {
	if v != nil {
		ss.WriteFloat64(s, *v)
	}
}

func (ss *ShapeSerializer) WriteBoolPtr(s *smithy.Schema, v *bool) {
	if v != nil {
		ss.WriteBool(s, *v)
	}
}

func (ss *ShapeSerializer) WriteStringPtr(s *smithy.Schema, v *string) {
	if v != nil {
		ss.WriteString(s, *v)
	}
}

func (ss *ShapeSerializer) WriteTimePtr(s *smithy.Schema, v *time.Time) {
	if v != nil {
		ss.WriteTime(s, *v)
	}
}

func (ss *ShapeSerializer) WriteBool(s *smithy.Schema, v bool) {
	if enc, ok := ss.value(s); ok {
		enc.Boolean(v)
	}
}

func (ss *ShapeSerializer) WriteInt8(s *smithy.Schema, v int8) {
	if enc, ok := ss.value(s); ok {
		enc.Byte(v)
	}
}

func (ss *ShapeSerializer) WriteInt16(s *smithy.Schema, v int16) {
	if enc, ok := ss.value(s); ok {
		enc.Short(v)
	}
}

func (ss *ShapeSerializer) WriteInt32(s *smithy.Schema, v int32) {
	if enc, ok := ss.value(s); ok {
		enc.Integer(v)
	}
}

func (ss *ShapeSerializer) WriteInt64(s *smithy.Schema, v int64) {
	if enc, ok := ss.value(s); ok {
		enc.Long(v)
	}
}

func (ss *ShapeSerializer) WriteFloat32(s *smithy.Schema, v float32) {
	if enc, ok := ss.value(s); ok {
		writeFloat(enc, float64(v), 32)
	}
}

func (ss *ShapeSerializer) WriteFloat64(s *smithy.Schema, v float64) {
	if enc, ok := ss.value(s); ok {
		writeFloat(enc, v, 64)
	}
}

// writeFloat writes non-finite values as the strings NaN, Infinity and
// -Infinity.
func writeFloat(enc Value, v float64, bits int) {
	switch {
	case math.IsNaN(v):
		enc.String("NaN")
	case math.IsInf(v, 1):
		enc.String("Infinity")
	case math.IsInf(v, -1):
		enc.String("-Infinity")
	case bits == 32:
		enc.Float(float32(v))
	default:
		enc.Double(v)
	}
}

func (ss *ShapeSerializer) WriteString(s *smithy.Schema, v string) {
	if enc, ok := ss.value(s); ok {
		enc.String(v)
	}
}

func (ss *ShapeSerializer) WriteBlob(s *smithy.Schema, v []byte) {
	if enc, ok := ss.value(s); ok {
		enc.Base64EncodeBytes(v)
	}
}

func (ss *ShapeSerializer) WriteTime(s *smithy.Schema, v time.Time) {
	enc, ok := ss.value(s)
	if !ok {
		return
	}

	switch f := ss.codec.timestampFormat(s); f {
	case smithytime.EpochSeconds:
		enc.Double(smithytime.FormatEpochSeconds(v))
	default:
		enc.String(smithytime.FormatString(v, f))
	}
}

func (ss *ShapeSerializer) WriteBigInteger(s *smithy.Schema, v big.Int) {
	if enc, ok := ss.value(s); ok {
		enc.BigInteger(&v)
	}
}

func (ss *ShapeSerializer) WriteBigDecimal(s *smithy.Schema, v big.Float) {
	if enc, ok := ss.value(s); ok {
		enc.BigDecimal(&v)
	}
}

func (ss *ShapeSerializer) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	enc, ok := ss.value(s)
	if !ok {
		return
	}

	obj := enc.Object()
	ss.head.Push(&objectFrame{obj: obj, top: ss.head.Len() == 0})
	if v != nil {
		v.Serialize(ss)
	}
	ss.head.Pop()
	obj.Close()
}

func (ss *ShapeSerializer) WriteUnion(s, variant *smithy.Schema, v smithy.Serializable) {
	enc, ok := ss.value(s)
	if !ok {
		return
	}

	obj := enc.Object()
	ss.head.Push(&objectFrame{obj: obj, key: ss.codec.memberName(variant), hasKey: true})
	v.Serialize(ss)
	ss.head.Pop()
	obj.Close()
}

func (ss *ShapeSerializer) WriteDocument(s *smithy.Schema, v any) {
	if enc, ok := ss.value(s); ok {
		writeDocument(enc, v)
	}
}

func writeDocument(enc Value, v any) {
	switch d := v.(type) {
	case nil:
		enc.Null()
	case bool:
		enc.Boolean(d)
	case string:
		enc.String(d)
	case json.Number:
		enc.Write([]byte(d))
	case float64:
		writeFloat(enc, d, 64)
	case float32:
		writeFloat(enc, float64(d), 32)
	case int:
		enc.Long(int64(d))
	case int32:
		enc.Integer(d)
	case int64:
		enc.Long(d)
	case []byte:
		enc.Base64EncodeBytes(d)
	case []any:
		arr := enc.Array()
		for _, e := range d {
			writeDocument(arr.Value(), e)
		}
		arr.Close()
	case map[string]any:
		obj := enc.Object()
		for _, k := range slices.Sorted(maps.Keys(d)) {
			writeDocument(obj.Key(k), d[k])
		}
		obj.Close()
	default:
		p, err := json.Marshal(d)
		if err != nil {
			enc.Null()
			return
		}
		enc.Write(p)
	}
}

func (ss *ShapeSerializer) WriteNil(s *smithy.Schema) {
	if enc, ok := ss.value(s); ok {
		enc.Null()
	}
}

func (ss *ShapeSerializer) WriteList(s *smithy.Schema) {
	enc, ok := ss.value(s)
	if !ok {
		// keep WriteList/CloseList balanced for skipped members
		ss.head.Push(newArray(new(bytes.Buffer), new([]byte)))
		return
	}
	ss.head.Push(enc.Array())
}

func (ss *ShapeSerializer) CloseList() {
	if enc, ok := ss.head.Top().(*Array); ok {
		enc.Close()
		ss.head.Pop()
	}
}

func (ss *ShapeSerializer) WriteMap(s *smithy.Schema) {
	enc, ok := ss.value(s)
	if !ok {
		ss.head.Push(&objectFrame{obj: newObject(new(bytes.Buffer), new([]byte))})
		return
	}
	ss.head.Push(&objectFrame{obj: enc.Object()})
}

func (ss *ShapeSerializer) WriteKey(s *smithy.Schema, key string) {
	if f, ok := ss.head.Top().(*objectFrame); ok {
		f.key, f.hasKey = key, true
	}
}

func (ss *ShapeSerializer) CloseMap() {
	if f, ok := ss.head.Top().(*objectFrame); ok {
		f.obj.Close()
		ss.head.Pop()
	}
}
