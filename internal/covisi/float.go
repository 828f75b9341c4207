package covisi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 whose JSON encoding tolerates non-finite values:
// NaN and the infinities marshal as strings ("NaN", "Infinity", "-Infinity")
// instead of failing the whole document. Persisted reports use it for every
// per-unit value so an undefined statistic survives a round trip.
type Float float64

// NaN returns the undefined-value sentinel.
func NaN() Float { return Float(math.NaN()) }

// IsNaN reports whether the value is undefined.
func (f Float) IsNaN() bool { return math.IsNaN(float64(f)) }

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts plain numbers, the
// string forms produced by MarshalJSON, and null (treated as undefined).
func (f *Float) UnmarshalJSON(b []byte) error {
	s := string(b)
	switch s {
	case "null":
		*f = NaN()
		return nil
	case `"NaN"`:
		*f = NaN()
		return nil
	case `"Infinity"`:
		*f = Float(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*f = Float(math.Inf(-1))
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid CoVISI value %s: %w", s, err)
	}
	*f = Float(v)
	return nil
}
