package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "sicli/internal/errors"
	"sicli/pkg/contracts/domain"
)

var ordinalPattern = regexp.MustCompile(`\d+`)

// ColumnOrdinal extracts the first integer embedded in a column name.
func ColumnOrdinal(name string) (int, error) {
	digits := ordinalPattern.FindString(name)
	if digits == "" {
		return 0, apperrors.NewColumnNamingError(name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, apperrors.NewColumnNamingError(name)
	}
	return n, nil
}

type meltColumn struct {
	name    string
	ordinal int
}

// meltColumns picks the wide columns of the first trial that match keep,
// in header order, and parses their ordinals.
func meltColumns(trials []domain.Trial, keep func(string) bool) ([]meltColumn, error) {
	if len(trials) == 0 {
		return nil, nil
	}
	var cols []meltColumn
	for _, c := range trials[0].Columns {
		if !keep(c.Name) {
			continue
		}
		n, err := ColumnOrdinal(c.Name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, meltColumn{name: c.Name, ordinal: n})
	}
	return cols, nil
}

// melt walks columns then trials, the order a data-frame melt produces.
func melt[T any](trials []domain.Trial, cols []meltColumn, row func(domain.Trial, meltColumn, int64) T) ([]T, error) {
	out := make([]T, 0, len(trials)*len(cols))
	for _, col := range cols {
		for _, trial := range trials {
			v, ok := trial.Column(col.name)
			if !ok {
				return nil, apperrors.NewSchemaError("trial", col.name).
					WithContext("BN", trial.BN).
					WithContext("TN", trial.TN)
			}
			out = append(out, row(trial, col, v))
		}
	}
	return out, nil
}

func isIntervalColumn(name string) bool {
	return strings.HasPrefix(name, PrefixIPI)
}

func isPressColumn(name string) bool {
	return strings.HasPrefix(name, PrefixPress) && !strings.HasPrefix(name, PrefixPressTime)
}

func isResponseColumn(name string) bool {
	return strings.HasPrefix(name, PrefixResponse)
}

// MeltIntervals turns IPI<k> columns into one row per interval. N is k+1 so
// that an interval lines up with the press it precedes.
func MeltIntervals(trials []domain.Trial) ([]domain.IntervalEvent, error) {
	cols, err := meltColumns(trials, isIntervalColumn)
	if err != nil {
		return nil, err
	}
	return melt(trials, cols, func(t domain.Trial, c meltColumn, v int64) domain.IntervalEvent {
		return domain.IntervalEvent{
			TrialAttrs: t.TrialAttrs,
			IsCross:    t.IsCross,
			CrossTime:  t.CrossTime,
			IPINumber:  c.name,
			IPIValue:   v,
			N:          c.ordinal + 1,
		}
	})
}

// MeltPresses turns press<k> columns, excluding press times, into rows.
func MeltPresses(trials []domain.Trial) ([]domain.PressValue, error) {
	cols, err := meltColumns(trials, isPressColumn)
	if err != nil {
		return nil, err
	}
	return melt(trials, cols, func(t domain.Trial, c meltColumn, v int64) domain.PressValue {
		return domain.PressValue{
			TrialAttrs:  t.TrialAttrs,
			PressNumber: c.name,
			PressValue:  v,
			N:           c.ordinal,
		}
	})
}

// MeltResponses turns response<k> columns into rows.
func MeltResponses(trials []domain.Trial) ([]domain.ResponseValue, error) {
	cols, err := meltColumns(trials, isResponseColumn)
	if err != nil {
		return nil, err
	}
	return melt(trials, cols, func(t domain.Trial, c meltColumn, v int64) domain.ResponseValue {
		return domain.ResponseValue{
			TrialAttrs:     t.TrialAttrs,
			ResponseNumber: c.name,
			ResponseValue:  v,
			N:              c.ordinal,
		}
	})
}

// MeltForces turns the force channels of each sample into one row per channel.
func MeltForces(samples []domain.ForceSample) ([]domain.ForceEvent, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	var channels []string
	for _, ch := range samples[0].Forces {
		if !strings.HasPrefix(ch.Name, PrefixForce) {
			continue
		}
		if _, err := ColumnOrdinal(ch.Name); err != nil {
			return nil, err
		}
		channels = append(channels, ch.Name)
	}

	out := make([]domain.ForceEvent, 0, len(samples)*len(channels))
	for ci, name := range channels {
		for _, s := range samples {
			value, ok := channelValue(s, ci, name)
			if !ok {
				return nil, apperrors.NewSchemaError("force", name)
			}
			out = append(out, domain.ForceEvent{
				State:       s.State,
				TimeReal:    s.TimeReal,
				Time:        s.Time,
				TrialAttrs:  s.TrialAttrs,
				IsCross:     s.IsCross,
				CrossTime:   s.CrossTime,
				NormMT:      s.NormMT,
				ForceNumber: name,
				ForceValue:  value,
			})
		}
	}
	return out, nil
}

func channelValue(s domain.ForceSample, hint int, name string) (float64, bool) {
	if hint < len(s.Forces) && s.Forces[hint].Name == name {
		return s.Forces[hint].Value, true
	}
	for _, ch := range s.Forces {
		if ch.Name == name {
			return ch.Value, true
		}
	}
	return 0, false
}
