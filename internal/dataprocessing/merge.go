package dataprocessing

import (
	"fmt"
	"log/slog"

	apperrors "sicli/internal/errors"
	"sicli/pkg/contracts/domain"
)

// MergeOptions controls how rows without a partner in every view are handled.
type MergeOptions struct {
	// AllowMismatch drops unmatched rows with a warning instead of failing.
	AllowMismatch bool
	Logger        *slog.Logger
}

// MergeStats reports what the merge left out.
type MergeStats struct {
	UnmatchedIntervals int
	UnmatchedPresses   int
	UnmatchedResponses int
}

// Dropped is the total number of rows left out of the result.
func (s MergeStats) Dropped() int {
	return s.UnmatchedIntervals + s.UnmatchedPresses + s.UnmatchedResponses
}

// Merge inner-joins the interval, press and response views on the trial
// attributes plus N and flags presses that differ from the expected digit.
// The result follows the order of the interval view.
func Merge(intervals []domain.IntervalEvent, presses []domain.PressValue, responses []domain.ResponseValue, opts MergeOptions) ([]domain.PressEvent, MergeStats, error) {
	var stats MergeStats

	pressIdx, err := indexRows(presses, "press")
	if err != nil {
		return nil, stats, err
	}
	responseIdx, err := indexRows(responses, "response")
	if err != nil {
		return nil, stats, err
	}

	seen := make(map[domain.EventKey]struct{}, len(intervals))
	pressUsed := make([]bool, len(presses))
	responseUsed := make([]bool, len(responses))

	out := make([]domain.PressEvent, 0, len(intervals))
	for _, iv := range intervals {
		key := iv.EventKey()
		if _, dup := seen[key]; dup {
			return nil, stats, duplicateKeyError("interval", key)
		}
		seen[key] = struct{}{}

		pi, okP := pressIdx[key]
		ri, okR := responseIdx[key]
		if !okP || !okR {
			stats.UnmatchedIntervals++
			continue
		}
		pressUsed[pi] = true
		responseUsed[ri] = true

		p, r := presses[pi], responses[ri]
		out = append(out, domain.PressEvent{
			TrialAttrs:     iv.TrialAttrs,
			IsCross:        iv.IsCross,
			CrossTime:      iv.CrossTime,
			N:              iv.N,
			IPINumber:      iv.IPINumber,
			IPIValue:       iv.IPIValue,
			PressNumber:    p.PressNumber,
			PressValue:     p.PressValue,
			ResponseNumber: r.ResponseNumber,
			ResponseValue:  r.ResponseValue,
			IsPressError:   p.PressValue != r.ResponseValue,
		})
	}

	stats.UnmatchedPresses = countUnused(pressUsed)
	stats.UnmatchedResponses = countUnused(responseUsed)

	if stats.Dropped() > 0 {
		if !opts.AllowMismatch {
			return nil, stats, apperrors.NewJoinMismatchError(
				fmt.Sprintf("ordinal ranges differ between views: %d interval, %d press, %d response rows unmatched",
					stats.UnmatchedIntervals, stats.UnmatchedPresses, stats.UnmatchedResponses)).
				WithContext("unmatched_intervals", stats.UnmatchedIntervals).
				WithContext("unmatched_presses", stats.UnmatchedPresses).
				WithContext("unmatched_responses", stats.UnmatchedResponses)
		}
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("merge dropped unmatched rows",
			slog.Int("unmatched_intervals", stats.UnmatchedIntervals),
			slog.Int("unmatched_presses", stats.UnmatchedPresses),
			slog.Int("unmatched_responses", stats.UnmatchedResponses))
	}

	return out, stats, nil
}

// FingerMelt melts the interval, press and response columns of trials that
// already carry IPI columns and merges them into one row per press.
func FingerMelt(trials []domain.Trial, opts MergeOptions) ([]domain.PressEvent, MergeStats, error) {
	intervals, err := MeltIntervals(trials)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("melt intervals: %w", err)
	}
	presses, err := MeltPresses(trials)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("melt presses: %w", err)
	}
	responses, err := MeltResponses(trials)
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("melt responses: %w", err)
	}
	return Merge(intervals, presses, responses, opts)
}

type keyed interface {
	EventKey() domain.EventKey
}

func indexRows[R keyed](rows []R, view string) (map[domain.EventKey]int, error) {
	idx := make(map[domain.EventKey]int, len(rows))
	for i, r := range rows {
		key := r.EventKey()
		if _, dup := idx[key]; dup {
			return nil, duplicateKeyError(view, key)
		}
		idx[key] = i
	}
	return idx, nil
}

func duplicateKeyError(view string, key domain.EventKey) error {
	return apperrors.NewJoinMismatchError(
		fmt.Sprintf("duplicate %s row for BN=%d TN=%d SubNum=%d N=%d", view, key.BN, key.TN, key.SubNum, key.N)).
		WithContext("view", view)
}

func countUnused(used []bool) int {
	n := 0
	for _, u := range used {
		if !u {
			n++
		}
	}
	return n
}
