package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics groups the counters recorded while processing subjects.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	TrialsLoaded      metric.Int64Counter
	PressRows         metric.Int64Counter
	RowsFiltered      metric.Int64Counter
	TimingsMasked     metric.Int64Counter
	IntervalAnomalies metric.Int64Counter
	JoinDropped       metric.Int64Counter
	SubjectErrors     metric.Int64Counter
	StageDuration     metric.Float64Histogram
}

// CreatePipelineMetrics registers the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&m.TrialsLoaded, "si_trials_loaded", "Trial rows read from experiment logs"},
		{&m.PressRows, "si_press_rows", "Per-press rows produced by the merge"},
		{&m.RowsFiltered, "si_rows_filtered", "Rows removed by error filters"},
		{&m.TimingsMasked, "si_timings_masked", "Timing values replaced by the masked marker"},
		{&m.IntervalAnomalies, "si_interval_anomalies", "Non-positive inter-press intervals"},
		{&m.JoinDropped, "si_join_dropped_rows", "Rows without a partner in the per-press merge"},
		{&m.SubjectErrors, "si_subject_errors", "Subjects that failed to process"},
	}
	for _, c := range counters {
		*c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
	}

	m.StageDuration, err = meter.Float64Histogram(
		"si_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func subjectAttr(subject int) metric.MeasurementOption {
	return metric.WithAttributes(attribute.Int("subject", subject))
}

// AddTrials records trial rows loaded for subject
func (m *PipelineMetrics) AddTrials(ctx context.Context, subject, n int) {
	if m == nil || n == 0 {
		return
	}
	m.TrialsLoaded.Add(ctx, int64(n), subjectAttr(subject))
}

// AddPressRows records merged per-press rows for subject
func (m *PipelineMetrics) AddPressRows(ctx context.Context, subject, n int) {
	if m == nil || n == 0 {
		return
	}
	m.PressRows.Add(ctx, int64(n), subjectAttr(subject))
}

// AddFiltered records rows dropped by the named filter mode
func (m *PipelineMetrics) AddFiltered(ctx context.Context, mode string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsFiltered.Add(ctx, int64(n), metric.WithAttributes(attribute.String("filter", mode)))
}

// AddMasked records masked timing values of the given kind
func (m *PipelineMetrics) AddMasked(ctx context.Context, kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.TimingsMasked.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

// AddAnomalies records non-positive intervals for subject
func (m *PipelineMetrics) AddAnomalies(ctx context.Context, subject, n int) {
	if m == nil || n == 0 {
		return
	}
	m.IntervalAnomalies.Add(ctx, int64(n), subjectAttr(subject))
}

// AddJoinDropped records rows dropped by a tolerated merge mismatch
func (m *PipelineMetrics) AddJoinDropped(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.JoinDropped.Add(ctx, int64(n))
}

// AddSubjectError records a failed subject
func (m *PipelineMetrics) AddSubjectError(ctx context.Context, subject int) {
	if m == nil {
		return
	}
	m.SubjectErrors.Add(ctx, 1, subjectAttr(subject))
}

// ObserveStage records how long a named stage took
func (m *PipelineMetrics) ObserveStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}
