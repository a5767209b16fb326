package dataprocessing

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sicli/internal/config"
	"sicli/internal/infrastructure"
	"sicli/pkg/contracts/domain"
)

// maxLoggedAnomalies caps per-anomaly WARN lines for one subject.
const maxLoggedAnomalies = 10

// PipelineConfig holds configuration options for the Pipeline.
type PipelineConfig struct {
	Filter        FilterMode
	AllowMismatch bool
	Workers       int
}

// Pipeline runs the reshape-and-annotate stages over subject tables.
type Pipeline struct {
	logger     *slog.Logger
	classifier *Classifier
	seqLength  int
	cfg        PipelineConfig
	tracer     trace.Tracer
	metrics    *infrastructure.PipelineMetrics
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics sets the counters updated while processing.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// SubjectResult is everything the pipeline derives from one subject.
type SubjectResult struct {
	Subject   int
	Path      string
	Trials    int
	Presses   []domain.AnnotatedPress
	Timings   []TrialTiming
	Anomalies []IntervalAnomaly
	Summaries []ConditionSummary
	Merge     MergeStats
	Filtered  int
}

// NewPipeline creates a pipeline over the given experiment.
func NewPipeline(logger *slog.Logger, exp config.Experiment, cfg PipelineConfig, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Filter == "" {
		cfg.Filter = FilterNone
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	p := &Pipeline{
		logger:     infrastructure.WithComponent(logger, "pipeline"),
		classifier: NewClassifier(exp),
		seqLength:  exp.SeqLength(),
		cfg:        cfg,
		tracer:     otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Classifier returns the classifier the pipeline annotates with.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// stage runs fn inside a span and records its duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	p.metrics.ObserveStage(ctx, name, time.Since(start))
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}

// Process derives intervals, merges the per-press views, filters and
// annotates one subject's trials.
func (p *Pipeline) Process(ctx context.Context, in SubjectTrials) (*SubjectResult, error) {
	ctx, span := p.tracer.Start(ctx, "process_subject",
		trace.WithAttributes(attribute.Int("subject", in.Subject)))
	defer span.End()

	logger := infrastructure.WithSubject(p.logger, in.Subject)
	res := &SubjectResult{Subject: in.Subject, Path: in.Path, Trials: len(in.Trials)}
	p.metrics.AddTrials(ctx, in.Subject, len(in.Trials))

	var trials []domain.Trial
	err := p.stage(ctx, "intervals", func(ctx context.Context) error {
		var err error
		trials, res.Anomalies, err = AddIPI(in.Trials, p.seqLength)
		if err != nil {
			return err
		}
		res.Timings, err = TrialTimings(trials, p.seqLength)
		return err
	})
	if err != nil {
		return nil, p.fail(ctx, in.Subject, "derive intervals", err)
	}
	p.reportAnomalies(ctx, logger, in.Subject, res.Anomalies)

	var events []domain.PressEvent
	err = p.stage(ctx, "melt_merge", func(ctx context.Context) error {
		var err error
		events, res.Merge, err = FingerMelt(trials, MergeOptions{
			AllowMismatch: p.cfg.AllowMismatch,
			Logger:        logger,
		})
		return err
	})
	if err != nil {
		return nil, p.fail(ctx, in.Subject, "merge", err)
	}
	p.metrics.AddJoinDropped(ctx, res.Merge.Dropped())
	sortByTrial(events, trials)

	before := len(events)
	events = p.cfg.Filter.Apply(events)
	res.Filtered = before - len(events)
	p.metrics.AddFiltered(ctx, string(p.cfg.Filter), res.Filtered)
	p.metrics.AddPressRows(ctx, in.Subject, len(events))

	err = p.stage(ctx, "annotate", func(ctx context.Context) error {
		var err error
		res.Presses, err = p.Annotate(events)
		return err
	})
	if err != nil {
		return nil, p.fail(ctx, in.Subject, "annotate", err)
	}
	p.recordMasked(ctx, res.Presses)

	res.Summaries = Summarize(res.Presses, SelectPressIPI)

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"trials":     res.Trials,
		"press_rows": len(res.Presses),
		"filtered":   res.Filtered,
	})
	logger.InfoContext(ctx, "subject processed",
		slog.Int("trials", res.Trials),
		slog.Int("press_rows", len(res.Presses)),
		slog.Int("filtered", res.Filtered),
		slog.String("filter", string(p.cfg.Filter)),
		slog.Int("anomalies", len(res.Anomalies)))

	return res, nil
}

// Annotate labels every press with its condition, digit-change flags and
// masked intervals.
func (p *Pipeline) Annotate(events []domain.PressEvent) ([]domain.AnnotatedPress, error) {
	changed, err := DigitChangedMask(p.classifier, events)
	if err != nil {
		return nil, err
	}
	window := ChangeWindowMask(events).And(changed)

	out := make([]domain.AnnotatedPress, len(events))
	for i, e := range events {
		cond, err := p.classifier.Condition(e.TrialAttrs)
		if err != nil {
			return nil, err
		}
		out[i] = domain.AnnotatedPress{
			PressEvent:     e,
			Condition:      cond,
			IsDigitChanged: changed[i],
			InChangeWindow: window[i],
			TrialIPI:       MaskErrorTrialIPI(e),
			PressIPI:       MaskErrorPressIPI(e),
		}
	}
	return out, nil
}

// Run processes subjects on up to Workers goroutines. Results keep the input
// order; on failure the error of the lowest-indexed subject is returned.
func (p *Pipeline) Run(ctx context.Context, subjects []SubjectTrials) ([]*SubjectResult, error) {
	return p.runIndexed(ctx, len(subjects), func(ctx context.Context, i int) (*SubjectResult, error) {
		return p.Process(ctx, subjects[i])
	})
}

// RunFiles loads and processes each subject file inside the worker pool.
func (p *Pipeline) RunFiles(ctx context.Context, loader *Loader, base string, subjects []int) ([]*SubjectResult, error) {
	return p.runIndexed(ctx, len(subjects), func(ctx context.Context, i int) (*SubjectResult, error) {
		loaded, err := loader.LoadSubjects(ctx, base, subjects[i:i+1])
		if err != nil {
			p.metrics.AddSubjectError(ctx, subjects[i])
			return nil, err
		}
		return p.Process(ctx, loaded[0])
	})
}

func (p *Pipeline) runIndexed(ctx context.Context, n int, fn func(context.Context, int) (*SubjectResult, error)) ([]*SubjectResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	results := make([]*SubjectResult, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (p *Pipeline) fail(ctx context.Context, subject int, step string, err error) error {
	p.metrics.AddSubjectError(ctx, subject)
	p.logger.ErrorContext(ctx, "subject failed",
		slog.Int("subject", subject),
		slog.String("step", step),
		slog.String("error", err.Error()))
	return fmt.Errorf("subject %d: %s: %w", subject, step, err)
}

func (p *Pipeline) reportAnomalies(ctx context.Context, logger *slog.Logger, subject int, anomalies []IntervalAnomaly) {
	if len(anomalies) == 0 {
		return
	}
	p.metrics.AddAnomalies(ctx, subject, len(anomalies))
	infrastructure.AddSpanEvent(ctx, "interval_anomalies", map[string]interface{}{
		"count": len(anomalies),
	})
	for i, a := range anomalies {
		if i == maxLoggedAnomalies {
			logger.WarnContext(ctx, "further interval anomalies suppressed",
				slog.Int("suppressed", len(anomalies)-maxLoggedAnomalies))
			break
		}
		logger.WarnContext(ctx, "non-positive inter-press interval",
			slog.Int("BN", a.Trial.BN),
			slog.Int("TN", a.Trial.TN),
			slog.String("interval", a.Interval),
			slog.Int64("value", a.Value))
	}
}

func (p *Pipeline) recordMasked(ctx context.Context, presses []domain.AnnotatedPress) {
	var trialMasked, pressMasked int
	for _, a := range presses {
		if a.TrialIPI.IsMasked() {
			trialMasked++
		}
		if a.PressIPI.IsMasked() {
			pressMasked++
		}
	}
	p.metrics.AddMasked(ctx, "trial_ipi", trialMasked)
	p.metrics.AddMasked(ctx, "press_ipi", pressMasked)
}

// sortByTrial orders press rows by their trial's position in the input,
// then by N.
func sortByTrial(events []domain.PressEvent, trials []domain.Trial) {
	pos := make(map[domain.TrialKey]int, len(trials))
	for i, t := range trials {
		if _, ok := pos[t.Key()]; !ok {
			pos[t.Key()] = i
		}
	}
	slices.SortStableFunc(events, func(a, b domain.PressEvent) int {
		if c := cmp.Compare(pos[a.Key()], pos[b.Key()]); c != 0 {
			return c
		}
		return cmp.Compare(a.N, b.N)
	})
}
