package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiming(t *testing.T) {
	tests := []struct {
		name       string
		timing     Timing
		wantMasked bool
		wantValue  float64
		wantText   string
	}{
		{name: "value", timing: TimingOf(215), wantValue: 215, wantText: "215"},
		{name: "fraction", timing: TimingOf(12.5), wantValue: 12.5, wantText: "12.5"},
		{name: "zero is a value", timing: TimingOf(0), wantValue: 0, wantText: "0"},
		{name: "masked", timing: MaskedTiming(), wantMasked: true, wantText: "inf"},
		{name: "infinity is masked", timing: TimingOf(math.Inf(1)), wantMasked: true, wantText: "inf"},
		{name: "NaN is masked", timing: TimingOf(math.NaN()), wantMasked: true, wantText: "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMasked, tt.timing.IsMasked())
			assert.Equal(t, tt.wantText, tt.timing.String())

			v, ok := tt.timing.Value()
			assert.Equal(t, !tt.wantMasked, ok)
			if ok {
				assert.Equal(t, tt.wantValue, v)
				assert.Equal(t, tt.wantValue, tt.timing.Float64())
			} else {
				assert.True(t, math.IsInf(tt.timing.Float64(), 1))
			}
		})
	}
}

func TestTiming_JSON(t *testing.T) {
	data, err := json.Marshal([]Timing{TimingOf(300), MaskedTiming()})
	require.NoError(t, err)
	assert.JSONEq(t, `[300, null]`, string(data))

	var back []Timing
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.Equal(t, TimingOf(300), back[0])
	assert.True(t, back[1].IsMasked())

	var bad Timing
	assert.Error(t, json.Unmarshal([]byte(`"fast"`), &bad))
}

func TestTrial_Columns(t *testing.T) {
	trial := Trial{
		TrialAttrs: TrialAttrs{BN: 2, TN: 7, SubNum: 3, IsError: 1},
		Columns:    []Column{{Name: "pressTime1", Value: 1000}},
	}

	v, ok := trial.Column("pressTime1")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), v)
	_, ok = trial.Column("IPI1")
	assert.False(t, ok)

	extended := trial.WithColumns(Column{Name: "IPI0", Value: 450})
	assert.Len(t, extended.Columns, 2)
	assert.Len(t, trial.Columns, 1, "receiver is untouched")

	extended.Columns[0].Value = 1
	assert.Equal(t, int64(1000), trial.Columns[0].Value, "columns are not shared")

	assert.Equal(t, TrialKey{BN: 2, TN: 7, SubNum: 3}, trial.Key())
	assert.True(t, trial.IsTrialError())
	assert.False(t, trial.HasTimingError())
	assert.Equal(t, trial.TrialAttrs, extended.Attrs())
}
