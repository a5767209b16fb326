package domain

// TrialKey uniquely identifies a trial within a subject's log.
type TrialKey struct {
	BN     int `json:"BN" csv:"BN"`
	TN     int `json:"TN" csv:"TN"`
	SubNum int `json:"SubNum" csv:"SubNum"`
}

// TrialAttrs holds the trial-level attributes every long-format row inherits.
// It is comparable and doubles as the join key of the per-event views.
type TrialAttrs struct {
	BN             int    `json:"BN" csv:"BN"`
	TN             int    `json:"TN" csv:"TN"`
	SubNum         int    `json:"SubNum" csv:"SubNum"`
	Group          int    `json:"group" csv:"group"`
	Hand           int    `json:"hand" csv:"hand"`
	IsTrain        int    `json:"isTrain" csv:"isTrain"`
	Seq            string `json:"seq" csv:"seq"`
	Cue            string `json:"cue" csv:"cue"`
	WindowSize     int    `json:"windowSize" csv:"windowSize"`
	DigitChangePos int    `json:"digitChangePos" csv:"digitChangePos"`
	IsError        int    `json:"isError" csv:"isError"`
	TimingError    int    `json:"timingError" csv:"timingError"`
}

// Attrs returns the attributes themselves. Embedding types inherit it, which
// lets classification work over any row that carries trial attributes.
func (a TrialAttrs) Attrs() TrialAttrs {
	return a
}

// Key returns the trial identity.
func (a TrialAttrs) Key() TrialKey {
	return TrialKey{BN: a.BN, TN: a.TN, SubNum: a.SubNum}
}

// IsTrialError reports whether the owning trial was flagged as erroneous.
func (a TrialAttrs) IsTrialError() bool {
	return a.IsError != 0
}

// HasTimingError reports whether the trial was flagged for a timing violation.
func (a TrialAttrs) HasTimingError() bool {
	return a.TimingError != 0
}

// Column is a numbered wide-format column of a trial (pressTime3, press3, IPI2, ...).
type Column struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Trial is one attempt at producing a cued sequence, in wide format.
type Trial struct {
	TrialAttrs

	IsCross            int     `json:"isCross" csv:"isCross"`
	CrossTime          int     `json:"crossTime" csv:"crossTime"`
	RT                 int     `json:"RT" csv:"RT"`
	TimeThreshold      float64 `json:"timeThreshold" csv:"timeThreshold"`
	TimeThresholdSuper float64 `json:"timeThresholdSuper" csv:"timeThresholdSuper"`

	// Columns holds every remaining integer column in header order.
	Columns []Column `json:"columns"`
}

// Column looks up a wide column by name.
func (t Trial) Column(name string) (int64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

// WithColumns returns a copy of the trial with extra columns appended.
// The receiver's column slice is never shared with the result.
func (t Trial) WithColumns(extra ...Column) Trial {
	cols := make([]Column, 0, len(t.Columns)+len(extra))
	cols = append(cols, t.Columns...)
	cols = append(cols, extra...)
	t.Columns = cols
	return t
}
