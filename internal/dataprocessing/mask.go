package dataprocessing

import (
	"sicli/pkg/contracts/domain"
)

// MaskIf returns the masked marker when flag is set, t otherwise. A masked
// value stays masked.
func MaskIf(flag bool, t domain.Timing) domain.Timing {
	if flag {
		return domain.MaskedTiming()
	}
	return t
}

// MaskErrorTrialTime masks a trial-level timing (movement time, execution
// time, normalised MT) of a trial flagged with isError.
func MaskErrorTrialTime(a domain.TrialAttrs, t domain.Timing) domain.Timing {
	return MaskIf(a.IsTrialError(), t)
}

// MaskErrorTrialIPI masks the interval of every press in an erroneous trial.
func MaskErrorTrialIPI(e domain.PressEvent) domain.Timing {
	return MaskIf(e.IsTrialError(), e.IPI())
}

// MaskErrorPressIPI masks the interval of an erroneous press.
func MaskErrorPressIPI(e domain.PressEvent) domain.Timing {
	return MaskIf(e.IsPressError, e.IPI())
}

// TrialTiming holds the trial-level timings. MT and ET are masked for error
// trials; RT is reported as measured.
type TrialTiming struct {
	domain.TrialAttrs
	RT domain.Timing `json:"RT" csv:"RT"`
	MT domain.Timing `json:"MT" csv:"MT"`
	ET domain.Timing `json:"ET" csv:"ET"`
}

// TrialTimings derives RT, MT and ET per trial.
func TrialTimings(trials []domain.Trial, seqLength int) ([]TrialTiming, error) {
	out := make([]TrialTiming, 0, len(trials))
	for _, t := range trials {
		mt, err := MovementTime(t, seqLength)
		if err != nil {
			return nil, err
		}
		et, err := ExecutionTime(t, seqLength)
		if err != nil {
			return nil, err
		}
		out = append(out, TrialTiming{
			TrialAttrs: t.TrialAttrs,
			RT:         domain.TimingOf(float64(t.RT)),
			MT:         MaskErrorTrialTime(t.TrialAttrs, domain.TimingOf(float64(mt))),
			ET:         MaskErrorTrialTime(t.TrialAttrs, domain.TimingOf(float64(et))),
		})
	}
	return out, nil
}
