package testing

import (
	"math"
	"testing"
	"time"
)

type output struct {
	Value   *float64
	Created time.Time
	items   []string
}

func TestCompareValues(t *testing.T) {
	nan := math.NaN()
	now := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := map[string]struct {
		X, Y  interface{}
		Equal bool
	}{
		"nan": {
			X:     &output{Value: &nan},
			Y:     &output{Value: func() *float64 { v := math.NaN(); return &v }()},
			Equal: true,
		},
		"time": {
			X:     output{Created: now},
			Y:     output{Created: now.In(time.FixedZone("x", 3600))},
			Equal: true,
		},
		"unexported": {
			X:     output{items: []string{"a"}},
			Y:     output{items: []string{"b"}},
			Equal: false,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := CompareValues(c.X, c.Y)
			if c.Equal && err != nil {
				t.Errorf("expect values to be equal, %v", err)
			}
			if !c.Equal && err == nil {
				t.Errorf("expect values to not be equal")
			}
		})
	}
}
