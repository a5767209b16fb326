package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sicli/pkg/contracts/domain"
)

// ConditionSummary describes the timings of one subject under one condition.
// Masked timings count toward Rows and Masked but never enter the statistics.
type ConditionSummary struct {
	Subject   int                      `json:"subject" csv:"subject"`
	Condition domain.SequenceCondition `json:"condition" csv:"condition"`
	Rows      int                      `json:"rows" csv:"rows"`
	Finite    int                      `json:"finite" csv:"finite"`
	Masked    int                      `json:"masked" csv:"masked"`
	Errors    int                      `json:"errors" csv:"errors"`
	Mean      domain.Timing            `json:"mean" csv:"mean"`
	Median    domain.Timing            `json:"median" csv:"median"`
	Std       float64                  `json:"std" csv:"std"`
	ErrorRate float64                  `json:"error_rate" csv:"error_rate"`
}

// TimingSelector picks the timing a summary is computed over.
type TimingSelector func(domain.AnnotatedPress) domain.Timing

// SelectPressIPI summarises intervals with erroneous presses masked.
func SelectPressIPI(p domain.AnnotatedPress) domain.Timing { return p.PressIPI }

// SelectTrialIPI summarises intervals with erroneous trials masked.
func SelectTrialIPI(p domain.AnnotatedPress) domain.Timing { return p.TrialIPI }

var conditionOrder = map[domain.SequenceCondition]int{
	domain.ConditionTrained:   0,
	domain.ConditionUntrained: 1,
	domain.ConditionRandom:    2,
}

type summaryKey struct {
	subject   int
	condition domain.SequenceCondition
}

// Summarize groups presses by subject and condition. Groups are ordered by
// subject, then trained, untrained, random.
func Summarize(presses []domain.AnnotatedPress, selectTiming TimingSelector) []ConditionSummary {
	if selectTiming == nil {
		selectTiming = SelectPressIPI
	}

	groups := make(map[summaryKey]*ConditionSummary)
	values := make(map[summaryKey][]float64)
	var keys []summaryKey

	for _, p := range presses {
		key := summaryKey{subject: p.SubNum, condition: p.Condition}
		s, ok := groups[key]
		if !ok {
			s = &ConditionSummary{Subject: p.SubNum, Condition: p.Condition}
			groups[key] = s
			keys = append(keys, key)
		}
		s.Rows++
		if p.IsPressError {
			s.Errors++
		}
		if v, ok := selectTiming(p).Value(); ok {
			s.Finite++
			values[key] = append(values[key], v)
		} else {
			s.Masked++
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].subject != keys[j].subject {
			return keys[i].subject < keys[j].subject
		}
		return conditionOrder[keys[i].condition] < conditionOrder[keys[j].condition]
	})

	out := make([]ConditionSummary, 0, len(keys))
	for _, key := range keys {
		s := groups[key]
		fillStats(s, values[key])
		out = append(out, *s)
	}
	return out
}

func fillStats(s *ConditionSummary, xs []float64) {
	if s.Rows > 0 {
		s.ErrorRate = float64(s.Errors) / float64(s.Rows)
	}
	if len(xs) == 0 {
		s.Mean = domain.MaskedTiming()
		s.Median = domain.MaskedTiming()
		return
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	s.Mean = domain.TimingOf(mean)
	s.Std = std

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	s.Median = domain.TimingOf(stat.Quantile(0.5, stat.Empirical, sorted, nil))
}
