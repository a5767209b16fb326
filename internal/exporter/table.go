package exporter

import (
	"sicli/internal/dataprocessing"
	"sicli/pkg/contracts/domain"
)

// Table is a named long-format table. Cells keep their Go types until a
// writer encodes them.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Records renders every row as text.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = record(row)
	}
	return out
}

func record(row []any) []string {
	rec := make([]string, len(row))
	for i, v := range row {
		rec[i] = formatCell(v)
	}
	return rec
}

var trialAttrHeaders = []string{
	"BN", "TN", "SubNum", "group", "hand", "isTrain", "seq", "cue",
	"windowSize", "digitChangePos", "isError", "timingError",
}

func attrCells(a domain.TrialAttrs) []any {
	return []any{
		a.BN, a.TN, a.SubNum, a.Group, a.Hand, a.IsTrain, a.Seq, a.Cue,
		a.WindowSize, a.DigitChangePos, a.IsError, a.TimingError,
	}
}

func withAttrs(extra ...string) []string {
	h := make([]string, 0, len(trialAttrHeaders)+len(extra))
	h = append(h, trialAttrHeaders...)
	return append(h, extra...)
}

func buildTable[R any](name string, headers []string, rows []R, cells func(R) []any) Table {
	t := Table{Name: name, Headers: headers, Rows: make([][]any, len(rows))}
	for i, r := range rows {
		t.Rows[i] = cells(r)
	}
	return t
}

// PressTable is one row per annotated press.
func PressTable(presses []domain.AnnotatedPress) Table {
	headers := withAttrs(
		"isCross", "crossTime", "N",
		"IPI_Number", "IPI_Value", "Press_Number", "Press_Value",
		"Response_Number", "Response_Value", "isPressError",
		"condition", "is_digit_changed", "in_change_window", "trial_IPI", "press_IPI",
	)
	return buildTable("presses", headers, presses, func(p domain.AnnotatedPress) []any {
		return append(attrCells(p.TrialAttrs),
			p.IsCross, p.CrossTime, p.N,
			p.IPINumber, p.IPIValue, p.PressNumber, p.PressValue,
			p.ResponseNumber, p.ResponseValue, p.IsPressError,
			p.Condition, p.IsDigitChanged, p.InChangeWindow, p.TrialIPI, p.PressIPI,
		)
	})
}

// TimingTable is one row per trial with its reaction, movement and execution times.
func TimingTable(timings []dataprocessing.TrialTiming) Table {
	return buildTable("trials", withAttrs("RT", "MT", "ET"), timings, func(t dataprocessing.TrialTiming) []any {
		return append(attrCells(t.TrialAttrs), t.RT, t.MT, t.ET)
	})
}

// SummaryTable is one row per subject and condition.
func SummaryTable(summaries []dataprocessing.ConditionSummary) Table {
	headers := []string{"subject", "condition", "rows", "finite", "masked", "errors", "mean", "median", "std", "error_rate"}
	return buildTable("summary", headers, summaries, func(s dataprocessing.ConditionSummary) []any {
		return []any{s.Subject, s.Condition, s.Rows, s.Finite, s.Masked, s.Errors, s.Mean, s.Median, s.Std, s.ErrorRate}
	})
}

// AnomalyTable lists non-positive intervals.
func AnomalyTable(anomalies []dataprocessing.IntervalAnomaly) Table {
	headers := []string{"BN", "TN", "SubNum", "interval", "value"}
	return buildTable("anomalies", headers, anomalies, func(a dataprocessing.IntervalAnomaly) []any {
		return []any{a.Trial.BN, a.Trial.TN, a.Trial.SubNum, a.Interval, a.Value}
	})
}

// ForceTable is one row per force sample and channel.
func ForceTable(events []domain.ForceEvent) Table {
	headers := []string{"state", "timeReal", "time"}
	headers = append(headers, trialAttrHeaders...)
	headers = append(headers, "isCross", "crossTime", "norm_MT", "Force_Number", "Force_Value")
	return buildTable("forces", headers, events, func(e domain.ForceEvent) []any {
		row := []any{e.State, e.TimeReal, e.Time}
		row = append(row, attrCells(e.TrialAttrs)...)
		return append(row, e.IsCross, e.CrossTime, e.NormMT, e.ForceNumber, e.ForceValue)
	})
}
