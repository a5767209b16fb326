package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sicli/internal/errors"
	"sicli/pkg/contracts/domain"
)

func TestColumnOrdinal(t *testing.T) {
	tests := []struct {
		column  string
		want    int
		wantErr bool
	}{
		{column: "IPI0", want: 0},
		{column: "IPI10", want: 10},
		{column: "press3", want: 3},
		{column: "response11", want: 11},
		{column: "force2_raw", want: 2},
		{column: "IPI", wantErr: true},
		{column: "pressX", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, err := ColumnOrdinal(tt.column)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeColumnNaming))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func withIPI(t *testing.T, specs ...trialFixture) []domain.Trial {
	t.Helper()
	out, _, err := AddIPI(trials(specs...), seqLen)
	require.NoError(t, err)
	return out
}

func TestMeltIntervals(t *testing.T) {
	in := withIPI(t, trialFixture{TN: 1, RT: 300}, trialFixture{TN: 2, RT: 410})

	rows, err := MeltIntervals(in)
	require.NoError(t, err)
	require.Len(t, rows, 2*seqLen)

	// Column-major: both trials for IPI1, then IPI2, ...
	assert.Equal(t, "IPI1", rows[0].IPINumber)
	assert.Equal(t, 1, rows[0].TN)
	assert.Equal(t, 2, rows[0].N)
	assert.Equal(t, int64(200), rows[0].IPIValue)
	assert.Equal(t, "IPI1", rows[1].IPINumber)
	assert.Equal(t, 2, rows[1].TN)

	last := rows[len(rows)-1]
	assert.Equal(t, "IPI0", last.IPINumber)
	assert.Equal(t, 1, last.N)
	assert.Equal(t, int64(410), last.IPIValue)
}

func TestMeltPresses_ExcludesPressTimes(t *testing.T) {
	in := withIPI(t, trialFixture{TN: 1}, trialFixture{TN: 2})

	rows, err := MeltPresses(in)
	require.NoError(t, err)
	require.Len(t, rows, 2*seqLen)

	for _, r := range rows {
		assert.NotContains(t, r.PressNumber, "Time")
		ord, err := ColumnOrdinal(r.PressNumber)
		require.NoError(t, err)
		assert.Equal(t, ord, r.N)
	}
	assert.Equal(t, int64(1), rows[0].PressValue)
	assert.Equal(t, int64(3), rows[2].PressValue)
}

func TestMeltResponses(t *testing.T) {
	rows, err := MeltResponses(withIPI(t, trialFixture{TN: 1, Seq: trainedG0b}))
	require.NoError(t, err)
	require.Len(t, rows, seqLen)
	assert.Equal(t, "response1", rows[0].ResponseNumber)
	assert.Equal(t, int64(3), rows[0].ResponseValue)
	assert.Equal(t, 11, rows[10].N)
}

func TestMelt_Empty(t *testing.T) {
	intervals, err := MeltIntervals(nil)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	forces, err := MeltForces(nil)
	require.NoError(t, err)
	assert.Empty(t, forces)
}

func TestMelt_ColumnNamingError(t *testing.T) {
	in := withIPI(t, trialFixture{TN: 1})
	in[0] = in[0].WithColumns(domain.Column{Name: "IPI_extra", Value: 1})

	_, err := MeltIntervals(in)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeColumnNaming))
}

func TestMelt_MissingColumnInLaterTrial(t *testing.T) {
	in := withIPI(t, trialFixture{TN: 1}, trialFixture{TN: 2})
	in[1].Columns = in[1].Columns[:len(in[1].Columns)-1] // drop IPI0

	_, err := MeltIntervals(in)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestMeltForces(t *testing.T) {
	attrs := domain.TrialAttrs{BN: 1, TN: 3, SubNum: 2, Seq: trainedG0, Cue: trainedG0}
	samples := []domain.ForceSample{
		{State: 3, TimeReal: 1.0, Time: 0.002, TrialAttrs: attrs, NormMT: 0.9,
			Forces: []domain.Channel{{Name: "force1", Value: 0.1}, {Name: "force2", Value: 0.2}, {Name: "force3", Value: 0.3}}},
		{State: 3, TimeReal: 1.002, Time: 0.004, TrialAttrs: attrs, NormMT: 0.9,
			Forces: []domain.Channel{{Name: "force1", Value: 1.1}, {Name: "force2", Value: 1.2}, {Name: "force3", Value: 1.3}}},
	}

	rows, err := MeltForces(samples)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, "force1", rows[0].ForceNumber)
	assert.Equal(t, 0.1, rows[0].ForceValue)
	assert.Equal(t, "force1", rows[1].ForceNumber)
	assert.Equal(t, 1.1, rows[1].ForceValue)
	assert.Equal(t, 0.004, rows[1].Time)
	assert.Equal(t, "force3", rows[5].ForceNumber)
	assert.Equal(t, 0.9, rows[5].NormMT)
	assert.Equal(t, 3, rows[5].TN)

	samples[0].Forces = append(samples[0].Forces, domain.Channel{Name: "forceX", Value: 0})
	_, err = MeltForces(samples)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeColumnNaming))
}
