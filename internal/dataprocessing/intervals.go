package dataprocessing

import (
	"fmt"
	"strconv"

	apperrors "sicli/internal/errors"
	"sicli/pkg/contracts/domain"
)

// IntervalAnomaly is a derived interval that is zero or negative, which
// means the logged press times are out of order.
type IntervalAnomaly struct {
	Trial    domain.TrialKey
	Interval string
	Value    int64
}

func (a IntervalAnomaly) String() string {
	return fmt.Sprintf("BN=%d TN=%d SubNum=%d %s=%d", a.Trial.BN, a.Trial.TN, a.Trial.SubNum, a.Interval, a.Value)
}

// IPIColumn returns the name of the i-th interval column.
func IPIColumn(i int) string {
	return PrefixIPI + strconv.Itoa(i)
}

// PressTimeColumn returns the name of the i-th press time column.
func PressTimeColumn(i int) string {
	return PrefixPressTime + strconv.Itoa(i)
}

// AddIPI derives IPI1..IPI(seqLength-1) from consecutive press times and
// IPI0 from the reaction time, appending them to copies of the trials.
// Non-positive intervals are kept and reported as anomalies.
func AddIPI(trials []domain.Trial, seqLength int) ([]domain.Trial, []IntervalAnomaly, error) {
	if seqLength < 1 {
		return nil, nil, apperrors.NewAppValidationError(fmt.Sprintf("sequence length must be positive, got %d", seqLength))
	}

	out := make([]domain.Trial, 0, len(trials))
	var anomalies []IntervalAnomaly

	for _, trial := range trials {
		times, err := pressTimes(trial, seqLength)
		if err != nil {
			return nil, nil, err
		}

		extra := make([]domain.Column, 0, seqLength)
		for i := 1; i < seqLength; i++ {
			name := IPIColumn(i)
			value := times[i] - times[i-1]
			if value <= 0 {
				anomalies = append(anomalies, IntervalAnomaly{Trial: trial.Key(), Interval: name, Value: value})
			}
			extra = append(extra, domain.Column{Name: name, Value: value})
		}
		extra = append(extra, domain.Column{Name: IPIColumn(0), Value: int64(trial.RT)})

		out = append(out, trial.WithColumns(extra...))
	}

	return out, anomalies, nil
}

// MovementTime is the time from the first to the last press.
func MovementTime(trial domain.Trial, seqLength int) (int64, error) {
	times, err := pressTimes(trial, seqLength)
	if err != nil {
		return 0, err
	}
	return times[len(times)-1] - times[0], nil
}

// ExecutionTime is the reaction time plus the movement time.
func ExecutionTime(trial domain.Trial, seqLength int) (int64, error) {
	mt, err := MovementTime(trial, seqLength)
	if err != nil {
		return 0, err
	}
	return int64(trial.RT) + mt, nil
}

func pressTimes(trial domain.Trial, seqLength int) ([]int64, error) {
	times := make([]int64, seqLength)
	for i := range times {
		name := PressTimeColumn(i + 1)
		v, ok := trial.Column(name)
		if !ok {
			return nil, apperrors.NewSchemaError("trial", name)
		}
		times[i] = v
	}
	return times, nil
}
