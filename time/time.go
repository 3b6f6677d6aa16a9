// Package time provides the timestamp formats defined by the Smithy
// timestampFormat trait, and the helpers generated protocol code uses to
// format and parse them.
package time

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format identifies a Smithy timestamp format.
type Format string

// Enumerates the formats supported by the smithy.api#timestampFormat trait.
const (
	DateTime     Format = "date-time"
	HTTPDate     Format = "http-date"
	EpochSeconds Format = "epoch-seconds"
)

// ParseFormat returns the Format for a timestampFormat trait value.
func ParseFormat(v string) (Format, bool) {
	switch f := Format(v); f {
	case DateTime, HTTPDate, EpochSeconds:
		return f, true
	default:
		return "", false
	}
}

const (
	// dateTimeFormatInput is a RFC3339 date time with optional fractional
	// seconds and UTC offset.
	dateTimeFormatInput = "2006-01-02T15:04:05.999999999Z07:00"

	// dateTimeFormatOutput is a RFC3339 date time with millisecond precision
	// and no UTC offset.
	dateTimeFormatOutput = "2006-01-02T15:04:05.999Z"

	// httpDateFormat is a IMF-fixdate formatted time https://tools.ietf.org/html/rfc7231.html#section-7.1.1.1
	httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// FormatDateTime format value as a date-time
func FormatDateTime(value time.Time) string {
	return value.UTC().Format(dateTimeFormatOutput)
}

// ParseDateTime parse a string as a date-time
func ParseDateTime(value string) (time.Time, error) {
	return time.Parse(dateTimeFormatInput, value)
}

// FormatHTTPDate format value as a http-date
func FormatHTTPDate(value time.Time) string {
	return value.UTC().Format(httpDateFormat)
}

// ParseHTTPDate parse a string as a http-date
func ParseHTTPDate(value string) (time.Time, error) {
	return time.Parse(httpDateFormat, value)
}

// FormatEpochSeconds returns value as a Unix time in seconds with millisecond
// precision. Higher precision is truncated.
func FormatEpochSeconds(value time.Time) float64 {
	ms := value.Unix()*1000 + int64(value.Nanosecond())/int64(time.Millisecond)
	return float64(ms) / 1000
}

// ParseEpochSeconds returns value as a Unix time in seconds with millisecond
// precision. Higher precision is truncated.
func ParseEpochSeconds(value float64) time.Time {
	// The shortest decimal form of value is exact to the digit the sender
	// wrote, which float arithmetic is not.
	s := strconv.FormatFloat(value, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	sec, _ := strconv.ParseInt(whole, 10, 64)

	frac = (frac + "000")[:3]
	ms, _ := strconv.ParseInt(frac, 10, 64)

	if neg {
		sec, ms = -sec, -ms
	}
	return time.Unix(sec, ms*int64(time.Millisecond)).UTC()
}

// FormatString formats value as a string in the given timestamp format, as it is
// written to headers, query strings and URI labels.
func FormatString(value time.Time, f Format) string {
	switch f {
	case HTTPDate:
		return FormatHTTPDate(value)
	case EpochSeconds:
		return strconv.FormatFloat(FormatEpochSeconds(value), 'f', -1, 64)
	default:
		return FormatDateTime(value)
	}
}

// ParseString parses a string written in the given timestamp format.
func ParseString(value string, f Format) (time.Time, error) {
	switch f {
	case HTTPDate:
		return ParseHTTPDate(value)
	case EpochSeconds:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch-seconds timestamp %q, %w", value, err)
		}
		return ParseEpochSeconds(v), nil
	default:
		return ParseDateTime(value)
	}
}
