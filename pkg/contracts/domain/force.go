package domain

// Channel is one numbered force-sensor column of a sample.
type Channel struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ForceSample is one row of a force-sensor recording in wide format, one
// column per finger channel.
type ForceSample struct {
	State    int     `json:"state" csv:"state"`
	TimeReal float64 `json:"timeReal" csv:"timeReal"`
	Time     float64 `json:"time" csv:"time"`
	TrialAttrs
	IsCross   int     `json:"isCross" csv:"isCross"`
	CrossTime int     `json:"crossTime" csv:"crossTime"`
	NormMT    float64 `json:"norm_MT" csv:"norm_MT"`

	Forces []Channel `json:"forces"`
}

// ForceEvent is one channel of one force sample in long format.
type ForceEvent struct {
	State    int     `json:"state" csv:"state"`
	TimeReal float64 `json:"timeReal" csv:"timeReal"`
	Time     float64 `json:"time" csv:"time"`
	TrialAttrs
	IsCross     int     `json:"isCross" csv:"isCross"`
	CrossTime   int     `json:"crossTime" csv:"crossTime"`
	NormMT      float64 `json:"norm_MT" csv:"norm_MT"`
	ForceNumber string  `json:"Force_Number" csv:"Force_Number"`
	ForceValue  float64 `json:"Force_Value" csv:"Force_Value"`
}
