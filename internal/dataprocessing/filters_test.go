package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicli/pkg/contracts/domain"
)

func TestRemoveErrorTrials(t *testing.T) {
	in := trials(
		trialFixture{TN: 1},
		trialFixture{TN: 2, IsError: 1},
		trialFixture{TN: 3, TimingError: 1},
		trialFixture{TN: 4},
	)

	out := RemoveErrorTrials(in)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].TN)
	assert.Equal(t, 4, out[1].TN)

	assert.Equal(t, out, RemoveErrorTrials(out))
	assert.Len(t, in, 4)
}

func TestRemoveErrorTrialPresses(t *testing.T) {
	events := pressEvents(t, trialFixture{TN: 1}, trialFixture{TN: 2, IsError: 1}, trialFixture{TN: 3, TimingError: 1})

	out := RemoveErrorTrialPresses(events)
	assert.Len(t, out, seqLen)
	for _, e := range out {
		assert.Equal(t, 1, e.TN)
	}
}

func TestRemoveErrorPresses(t *testing.T) {
	events := pressEvents(t, trialFixture{TN: 1}.withPressError(2, 5))

	out := RemoveErrorPresses(events)
	assert.Equal(t, []int{1, 3, 4, 6, 7, 8, 9, 10, 11}, ordinals(out, 1))
}

func TestNextAndRemainingFilters_ErrorAtThree(t *testing.T) {
	events := pressEvents(t,
		trialFixture{TN: 1}.withPressError(3),
		trialFixture{TN: 2},
	)

	next := RemoveNextErrorPresses(events)
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8, 9, 10, 11}, ordinals(next, 1))
	assert.Len(t, ordinals(next, 2), seqLen)

	remaining := RemoveRemainingErrorPresses(events)
	assert.Equal(t, []int{1, 2}, ordinals(remaining, 1))
	assert.Len(t, ordinals(remaining, 2), seqLen)
}

func TestRemoveRemainingErrorPresses_UsesFirstError(t *testing.T) {
	events := pressEvents(t, trialFixture{TN: 1}.withPressError(9, 4, 6))

	out := RemoveRemainingErrorPresses(events)
	assert.Equal(t, []int{1, 2, 3}, ordinals(out, 1))
}

func TestRemoveNextErrorPresses_ConsecutiveErrors(t *testing.T) {
	events := pressEvents(t, trialFixture{TN: 1}.withPressError(4, 5))

	out := RemoveNextErrorPresses(events)
	assert.Equal(t, []int{1, 2, 3, 4, 7, 8, 9, 10, 11}, ordinals(out, 1))
}

func TestNextFilter_TrialScoped(t *testing.T) {
	// An error at N=11 of trial 1 must not remove N=1 (or anything) of trial 2.
	events := pressEvents(t, trialFixture{TN: 1}.withPressError(11), trialFixture{TN: 2})

	out := RemoveNextErrorPresses(events)
	assert.Len(t, ordinals(out, 1), seqLen)
	assert.Len(t, ordinals(out, 2), seqLen)
}

func TestFilters_Idempotent(t *testing.T) {
	events := pressEvents(t,
		trialFixture{TN: 1}.withPressError(3, 4),
		trialFixture{TN: 2, IsError: 1}.withPressError(8),
		trialFixture{TN: 3},
		trialFixture{TN: 4, TimingError: 1},
	)

	filters := map[string]func([]domain.PressEvent) []domain.PressEvent{
		"trial presses": RemoveErrorTrialPresses,
		"presses":       RemoveErrorPresses,
		"next":          RemoveNextErrorPresses,
		"remaining":     RemoveRemainingErrorPresses,
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			once := filter(events)
			assert.Equal(t, once, filter(once))
			assert.Less(t, len(once), len(events))
		})
	}
}

func TestFilterMode(t *testing.T) {
	tests := []struct {
		in     string
		want   FilterMode
		wantOK bool
	}{
		{in: "", want: FilterNone, wantOK: true},
		{in: "none", want: FilterNone, wantOK: true},
		{in: "trials", want: FilterTrials, wantOK: true},
		{in: "presses", want: FilterPresses, wantOK: true},
		{in: "next", want: FilterNext, wantOK: true},
		{in: "remaining", want: FilterRemaining, wantOK: true},
		{in: "all"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFilterMode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	events := pressEvents(t, trialFixture{TN: 1}.withPressError(3))
	assert.Len(t, FilterNone.Apply(events), seqLen)
	assert.Len(t, FilterTrials.Apply(events), seqLen)
	assert.Len(t, FilterPresses.Apply(events), seqLen-1)
	assert.Len(t, FilterNext.Apply(events), seqLen-1)
	assert.Len(t, FilterRemaining.Apply(events), 2)
}
