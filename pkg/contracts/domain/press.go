package domain

// EventKey identifies one long-format row: the trial attributes plus the
// press ordinal N. The interval, press and response views join on it.
type EventKey struct {
	TrialAttrs
	N int
}

// IntervalEvent is a melted IPI column. N is the IPI index plus one so that
// it lines up with the press the interval precedes.
type IntervalEvent struct {
	TrialAttrs
	IsCross   int    `json:"isCross" csv:"isCross"`
	CrossTime int    `json:"crossTime" csv:"crossTime"`
	IPINumber string `json:"IPI_Number" csv:"IPI_Number"`
	IPIValue  int64  `json:"IPI_Value" csv:"IPI_Value"`
	N         int    `json:"N" csv:"N"`
}

// EventKey returns the join key of the row.
func (e IntervalEvent) EventKey() EventKey { return EventKey{TrialAttrs: e.TrialAttrs, N: e.N} }

// PressValue is a melted press column: the digit actually pressed.
type PressValue struct {
	TrialAttrs
	PressNumber string `json:"Press_Number" csv:"Press_Number"`
	PressValue  int64  `json:"Press_Value" csv:"Press_Value"`
	N           int    `json:"N" csv:"N"`
}

// EventKey returns the join key of the row.
func (e PressValue) EventKey() EventKey { return EventKey{TrialAttrs: e.TrialAttrs, N: e.N} }

// ResponseValue is a melted response column: the digit that was expected.
type ResponseValue struct {
	TrialAttrs
	ResponseNumber string `json:"Response_Number" csv:"Response_Number"`
	ResponseValue  int64  `json:"Response_Value" csv:"Response_Value"`
	N              int    `json:"N" csv:"N"`
}

// EventKey returns the join key of the row.
func (e ResponseValue) EventKey() EventKey { return EventKey{TrialAttrs: e.TrialAttrs, N: e.N} }

// PressEvent is one keypress within a trial after the three views are merged.
type PressEvent struct {
	TrialAttrs
	IsCross        int    `json:"isCross" csv:"isCross"`
	CrossTime      int    `json:"crossTime" csv:"crossTime"`
	N              int    `json:"N" csv:"N"`
	IPINumber      string `json:"IPI_Number" csv:"IPI_Number"`
	IPIValue       int64  `json:"IPI_Value" csv:"IPI_Value"`
	PressNumber    string `json:"Press_Number" csv:"Press_Number"`
	PressValue     int64  `json:"Press_Value" csv:"Press_Value"`
	ResponseNumber string `json:"Response_Number" csv:"Response_Number"`
	ResponseValue  int64  `json:"Response_Value" csv:"Response_Value"`
	IsPressError   bool   `json:"isPressError" csv:"isPressError"`
}

// EventKey returns the row identity.
func (e PressEvent) EventKey() EventKey { return EventKey{TrialAttrs: e.TrialAttrs, N: e.N} }

// IPI returns the interval preceding this press as an unmasked timing.
func (e PressEvent) IPI() Timing { return TimingOf(float64(e.IPIValue)) }

// SequenceCondition labels which sequence set a trial's executed sequence belongs to.
type SequenceCondition string

const (
	ConditionTrained   SequenceCondition = "trained"
	ConditionUntrained SequenceCondition = "untrained"
	ConditionRandom    SequenceCondition = "random"
)

// AnnotatedPress is a press event with its condition labels and masked timings.
type AnnotatedPress struct {
	PressEvent
	Condition      SequenceCondition `json:"condition" csv:"condition"`
	IsDigitChanged bool              `json:"is_digit_changed" csv:"is_digit_changed"`
	InChangeWindow bool              `json:"in_change_window" csv:"in_change_window"`
	// TrialIPI is masked when the owning trial is erroneous.
	TrialIPI Timing `json:"trial_IPI" csv:"trial_IPI"`
	// PressIPI is masked when this press is erroneous.
	PressIPI Timing `json:"press_IPI" csv:"press_IPI"`
}
