package dataprocessing

import (
	"sicli/pkg/contracts/domain"
)

// FilterMode selects which error filter the pipeline applies to press rows.
type FilterMode string

const (
	FilterNone      FilterMode = "none"
	FilterTrials    FilterMode = "trials"
	FilterPresses   FilterMode = "presses"
	FilterNext      FilterMode = "next"
	FilterRemaining FilterMode = "remaining"
)

// ParseFilterMode maps a config value to a FilterMode.
func ParseFilterMode(s string) (FilterMode, bool) {
	switch m := FilterMode(s); m {
	case FilterNone, FilterTrials, FilterPresses, FilterNext, FilterRemaining:
		return m, true
	case "":
		return FilterNone, true
	default:
		return "", false
	}
}

// Apply runs the filter selected by the mode over press rows.
func (m FilterMode) Apply(events []domain.PressEvent) []domain.PressEvent {
	switch m {
	case FilterTrials:
		return RemoveErrorTrialPresses(events)
	case FilterPresses:
		return RemoveErrorPresses(events)
	case FilterNext:
		return RemoveNextErrorPresses(events)
	case FilterRemaining:
		return RemoveRemainingErrorPresses(events)
	default:
		return events
	}
}

func cleanTrial(a domain.TrialAttrs) bool {
	return !a.IsTrialError() && !a.HasTimingError()
}

// RemoveErrorTrials keeps trials with neither an error nor a timing error.
func RemoveErrorTrials(trials []domain.Trial) []domain.Trial {
	return Select(trials, MaskOf(trials, func(t domain.Trial) bool { return cleanTrial(t.TrialAttrs) }))
}

// RemoveErrorTrialPresses keeps press rows whose owning trial is clean.
func RemoveErrorTrialPresses(events []domain.PressEvent) []domain.PressEvent {
	return Select(events, MaskOf(events, func(e domain.PressEvent) bool { return cleanTrial(e.TrialAttrs) }))
}

// RemoveErrorPresses keeps press rows where the pressed digit was the expected one.
func RemoveErrorPresses(events []domain.PressEvent) []domain.PressEvent {
	return Select(events, MaskOf(events, func(e domain.PressEvent) bool { return !e.IsPressError }))
}

type pressKey struct {
	trial domain.TrialKey
	n     int
}

// RemoveNextErrorPresses drops the press that immediately follows each
// erroneous press in the same trial.
func RemoveNextErrorPresses(events []domain.PressEvent) []domain.PressEvent {
	next := make(map[pressKey]struct{})
	for _, e := range events {
		if e.IsPressError {
			next[pressKey{trial: e.Key(), n: e.N + 1}] = struct{}{}
		}
	}
	return Select(events, MaskOf(events, func(e domain.PressEvent) bool {
		_, drop := next[pressKey{trial: e.Key(), n: e.N}]
		return !drop
	}))
}

// RemoveRemainingErrorPresses drops, per trial, every press from the first
// erroneous one onward. Trials without errors are unaffected.
func RemoveRemainingErrorPresses(events []domain.PressEvent) []domain.PressEvent {
	firstError := make(map[domain.TrialKey]int)
	for _, e := range events {
		if !e.IsPressError {
			continue
		}
		if n, ok := firstError[e.Key()]; !ok || e.N < n {
			firstError[e.Key()] = e.N
		}
	}
	return Select(events, MaskOf(events, func(e domain.PressEvent) bool {
		n, ok := firstError[e.Key()]
		return !ok || e.N < n
	}))
}
