package httpbinding

import (
	"math"
	"math/big"
	"strconv"
)

// URIValue is used to encode named URI parameters
type URIValue struct {
	path, rawPath *[]byte
	key           string
}

func newURIValue(path *[]byte, rawPath *[]byte, key string) URIValue {
	return URIValue{path: path, rawPath: rawPath, key: key}
}

func (u URIValue) modifyURI(value string) (err error) {
	*u.path, err = replacePathElement(*u.path, u.key, value, false)
	if err != nil {
		return err
	}
	*u.rawPath, err = replacePathElement(*u.rawPath, u.key, value, true)
	return err
}

// Boolean encodes v as a URI string value
func (u URIValue) Boolean(v bool) error {
	return u.modifyURI(strconv.FormatBool(v))
}

// String encodes v as a URI string value
func (u URIValue) String(v string) error {
	return u.modifyURI(v)
}

// Byte encodes v as a URI string value
func (u URIValue) Byte(v int8) error {
	return u.Long(int64(v))
}

// Short encodes v as a URI string value
func (u URIValue) Short(v int16) error {
	return u.Long(int64(v))
}

// Integer encodes v as a URI string value
func (u URIValue) Integer(v int32) error {
	return u.Long(int64(v))
}

// Long encodes v as a URI string value
func (u URIValue) Long(v int64) error {
	return u.modifyURI(strconv.FormatInt(v, 10))
}

// Float encodes v as a query string value
func (u URIValue) Float(v float32) error {
	return u.modifyURI(formatFloat(float64(v), 32))
}

// Double encodes v as a query string value
func (u URIValue) Double(v float64) error {
	return u.modifyURI(formatFloat(v, 64))
}

// BigInteger encodes v as a query string value
func (u URIValue) BigInteger(v *big.Int) error {
	return u.modifyURI(v.String())
}

// BigDecimal encodes v as a query string value
func (u URIValue) BigDecimal(v *big.Float) error {
	if i, accuracy := v.Int64(); accuracy == big.Exact {
		return u.Long(i)
	}
	return u.modifyURI(v.Text('e', -1))
}

// formatFloat writes non-finite values as NaN, Infinity and -Infinity.
func formatFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'f', -1, bits)
	}
}
