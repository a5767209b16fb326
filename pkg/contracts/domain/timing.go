package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// MaskedText is how a masked timing is rendered in text outputs.
const MaskedText = "inf"

// Timing is a millisecond duration that may have been masked because the
// row it belongs to was erroneous. A masked timing has no value: it is
// counted but never enters sums or means.
type Timing struct {
	value  float64
	masked bool
}

// TimingOf wraps a measured value. Non-finite input yields a masked timing.
func TimingOf(v float64) Timing {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Timing{masked: true}
	}
	return Timing{value: v}
}

// MaskedTiming returns the masked marker.
func MaskedTiming() Timing {
	return Timing{masked: true}
}

// Value returns the value and whether it is present.
func (t Timing) Value() (float64, bool) {
	if t.masked {
		return 0, false
	}
	return t.value, true
}

// IsMasked reports whether the value was masked.
func (t Timing) IsMasked() bool {
	return t.masked
}

// Float64 returns +Inf for masked timings, for consumers expecting the legacy encoding.
func (t Timing) Float64() float64 {
	if t.masked {
		return math.Inf(1)
	}
	return t.value
}

func (t Timing) String() string {
	if t.masked {
		return MaskedText
	}
	return strconv.FormatFloat(t.value, 'f', -1, 64)
}

// MarshalJSON encodes masked timings as null.
func (t Timing) MarshalJSON() ([]byte, error) {
	if t.masked {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON accepts a number or null.
func (t *Timing) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = MaskedTiming()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = TimingOf(v)
	return nil
}
