package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sicli/internal/files"
	"sicli/pkg/contracts/domain"
)

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	Extension string // Subject file extension, ".dat" when empty
}

// Loader reads experiment logs into typed trial tables.
type Loader struct {
	logger *slog.Logger
	ext    string
}

// SubjectTrials is the trial table of one subject file.
type SubjectTrials struct {
	Subject int
	Path    string
	Trials  []domain.Trial
}

// NewLoader creates a new Loader.
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Extension == "" {
		cfg.Extension = files.DefaultExtension
	}
	return &Loader{logger: logger, ext: cfg.Extension}
}

// LoadFile parses one trial table. All columns are integers except the two
// threshold fields, which are floats, and seq and cue, which stay text so
// that leading zeros survive.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]domain.Trial, error) {
	t, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(TrialSchema); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(TrialSchema)+2)
	for _, col := range TrialSchema {
		known[col] = true
	}
	known[ColTimeThreshold] = true
	known[ColTimeThresholdSuper] = true

	var wide []string
	for _, col := range t.header {
		if !known[col] {
			wide = append(wide, col)
		}
	}

	trials := make([]domain.Trial, 0, len(t.rows))
	for i := range t.rows {
		c := t.cursor(i)
		trial := domain.Trial{
			TrialAttrs: readAttrs(c),
			IsCross:    c.int(ColIsCross),
			CrossTime:  c.int(ColCrossTime),
			RT:         c.int(ColRT),
			Columns:    make([]domain.Column, 0, len(wide)),
		}
		if t.has(ColTimeThreshold) {
			trial.TimeThreshold = c.float(ColTimeThreshold)
		}
		if t.has(ColTimeThresholdSuper) {
			trial.TimeThresholdSuper = c.float(ColTimeThresholdSuper)
		}
		for _, col := range wide {
			trial.Columns = append(trial.Columns, domain.Column{Name: col, Value: c.int64(col)})
		}
		if c.err != nil {
			return nil, c.err
		}
		trials = append(trials, trial)
	}

	l.logger.DebugContext(ctx, "trial table loaded",
		slog.String("path", path),
		slog.Int("trials", len(trials)),
		slog.Int("wide_columns", len(wide)))

	return trials, nil
}

// LoadSubjects loads <base>_<subject><ext> for every subject, in order.
// The first failing file aborts the batch.
func (l *Loader) LoadSubjects(ctx context.Context, base string, subjects []int) ([]SubjectTrials, error) {
	out := make([]SubjectTrials, 0, len(subjects))
	for _, subject := range subjects {
		path := files.SubjectFileName(base, subject, l.ext)
		trials, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load subject %d: %w", subject, err)
		}
		out = append(out, SubjectTrials{Subject: subject, Path: path, Trials: trials})
	}

	l.logger.InfoContext(ctx, "subjects loaded", slog.Int("subjects", len(out)))
	return out, nil
}

// LoadForceFile parses a force-sensor recording. Columns starting with
// "force" are read as float channels; other extra columns are ignored.
func (l *Loader) LoadForceFile(ctx context.Context, path string) ([]domain.ForceSample, error) {
	t, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ForceSchema); err != nil {
		return nil, err
	}

	var channels []string
	for _, col := range t.header {
		if strings.HasPrefix(col, PrefixForce) {
			channels = append(channels, col)
		}
	}

	samples := make([]domain.ForceSample, 0, len(t.rows))
	for i := range t.rows {
		c := t.cursor(i)
		sample := domain.ForceSample{
			State:      c.int(ColState),
			TimeReal:   c.float(ColTimeReal),
			Time:       c.float(ColTime),
			TrialAttrs: readAttrs(c),
			IsCross:    c.int(ColIsCross),
			CrossTime:  c.int(ColCrossTime),
			NormMT:     c.float(ColNormMT),
			Forces:     make([]domain.Channel, 0, len(channels)),
		}
		for _, col := range channels {
			sample.Forces = append(sample.Forces, domain.Channel{Name: col, Value: c.float(col)})
		}
		if c.err != nil {
			return nil, c.err
		}
		samples = append(samples, sample)
	}

	l.logger.DebugContext(ctx, "force table loaded",
		slog.String("path", path),
		slog.Int("samples", len(samples)),
		slog.Int("channels", len(channels)))

	return samples, nil
}

func readAttrs(c *cursor) domain.TrialAttrs {
	return domain.TrialAttrs{
		BN:             c.int(ColBN),
		TN:             c.int(ColTN),
		SubNum:         c.int(ColSubNum),
		Group:          c.int(ColGroup),
		Hand:           c.int(ColHand),
		IsTrain:        c.int(ColIsTrain),
		Seq:            c.text(ColSeq),
		Cue:            c.text(ColCue),
		WindowSize:     c.int(ColWindowSize),
		DigitChangePos: c.int(ColDigitChangePos),
		IsError:        c.int(ColIsError),
		TimingError:    c.int(ColTimingError),
	}
}
