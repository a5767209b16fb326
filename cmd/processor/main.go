package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"sicli/internal/config"
	"sicli/internal/dataprocessing"
	apperrors "sicli/internal/errors"
	"sicli/internal/exporter"
	"sicli/internal/files"
	"sicli/internal/infrastructure"
	"sicli/internal/validation"
	"sicli/pkg/contracts"
)

// options are the resolved command-line settings of one run
type options struct {
	base          string
	subjects      []int
	out           string
	format        exporter.Format
	force         bool
	filter        dataprocessing.FilterMode
	allowMismatch bool
	workers       int
	version       bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 2
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stderr, contracts.GetFullVersionString())
		return 0
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, config.DefaultRunTimeout)
	defer cancel()
	ctx = infrastructure.ContextWithTraceID(ctx)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := providers.WriteMetricsFile(cfg.Telemetry.MetricsFile); err != nil {
			logger.WarnContext(ctx, "failed to write metrics file", slog.String("error", err.Error()))
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	if err := process(ctx, cfg, opts, logger, providers); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "processing failed",
			slog.String("error_type", string(apperrors.TypeOf(err))))
		return 1
	}
	return 0
}

// parseFlags overlays command-line flags on the configured defaults.
func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	base := fs.String("base", filepath.Join(cfg.Paths.DataDir, cfg.Paths.FileBase),
		"path prefix of subject files; <base>_<id>"+cfg.Paths.FileExtension+" is read")
	subjects := fs.String("subjects", "", "subject ids, e.g. 1,2,5-8 (default: every subject file next to -base)")
	out := fs.String("out", cfg.Paths.OutputDir, "output directory")
	format := fs.String("format", cfg.Pipeline.OutputFormat, "output format: csv, tsv or xlsx")
	force := fs.Bool("force", false, "also melt <base>_<id>_force files")
	filter := fs.String("filter", cfg.Pipeline.Filter, "error filter: none, trials, presses, next or remaining")
	allowMismatch := fs.Bool("allow-mismatch", cfg.Pipeline.AllowMismatch, "drop rows missing from a view instead of failing")
	workers := fs.Int("workers", cfg.Pipeline.Workers, "subjects processed concurrently")
	version := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opts := &options{
		base:          *base,
		out:           *out,
		force:         *force,
		allowMismatch: *allowMismatch,
		workers:       *workers,
		version:       *version,
	}

	var err error
	if opts.subjects, err = parseSubjects(*subjects); err != nil {
		return nil, err
	}
	if opts.format, err = exporter.ParseFormat(*format); err != nil {
		return nil, err
	}
	mode, ok := dataprocessing.ParseFilterMode(*filter)
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", *filter)
	}
	opts.filter = mode
	if opts.workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", opts.workers)
	}
	return opts, nil
}

// parseSubjects accepts a comma-separated list of ids and inclusive ranges.
// Duplicates are dropped; the first occurrence keeps its place.
func parseSubjects(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out []int
	seen := make(map[int]bool)
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || from < 0 {
			return nil, fmt.Errorf("invalid subject %q", part)
		}
		if !isRange {
			add(from)
			continue
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil || to < from {
			return nil, fmt.Errorf("invalid subject range %q", part)
		}
		for id := from; id <= to; id++ {
			add(id)
		}
	}
	return out, nil
}

// process runs the pipeline over the selected subjects and writes every table.
func process(ctx context.Context, cfg *config.Config, opts *options, logger *slog.Logger, providers *infrastructure.OTelProviders) error {
	start := time.Now()
	ext := cfg.Paths.FileExtension

	exp, err := cfg.BuildExperiment()
	if err != nil {
		return apperrors.NewConfigError("invalid experiment", err)
	}

	validator := validation.NewFileValidator(logger)
	dir, prefix := filepath.Split(opts.base)
	if dir == "" {
		dir = "."
	}
	if err := validator.ValidateInputDirectory(dir); err != nil {
		return err
	}

	subjects := opts.subjects
	if len(subjects) == 0 {
		if subjects, err = files.NewDiscovery("").FindSubjects(dir, prefix, ext); err != nil {
			return err
		}
		logger.InfoContext(ctx, "subjects discovered",
			slog.String("dir", dir),
			slog.Int("count", len(subjects)))
	}
	if len(subjects) == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("subject files for %s", opts.base))
	}
	if err := validator.ValidateSubjectFiles(opts.base, subjects, ext); err != nil {
		return err
	}
	if opts.force {
		if err := validator.ValidateForceFiles(opts.base, subjects, ext); err != nil {
			return err
		}
	}

	pathsCfg := cfg.Paths
	pathsCfg.OutputDir = opts.out
	wd, err := os.Getwd()
	if err != nil {
		return apperrors.NewStorageError("failed to resolve working directory", err)
	}
	paths := config.ResolvePaths(wd, pathsCfg)
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to prepare output directories", err)
	}

	var metrics *infrastructure.PipelineMetrics
	if providers != nil {
		if metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter); err != nil {
			return err
		}
	}

	pipelineOpts := []dataprocessing.Option{dataprocessing.WithMetrics(metrics)}
	if providers != nil {
		pipelineOpts = append(pipelineOpts, dataprocessing.WithTracer(providers.Tracer))
	}
	pipeline := dataprocessing.NewPipeline(logger, exp, dataprocessing.PipelineConfig{
		Filter:        opts.filter,
		AllowMismatch: opts.allowMismatch,
		Workers:       opts.workers,
	}, pipelineOpts...)
	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{Extension: ext})

	logger.InfoContext(ctx, "processing started",
		slog.String("base", opts.base),
		slog.Any("subjects", subjects),
		slog.String("filter", string(opts.filter)),
		slog.String("format", string(opts.format)),
		slog.Int("workers", opts.workers))

	results, err := pipeline.RunFiles(ctx, loader, opts.base, subjects)
	if err != nil {
		return err
	}

	out := exporter.NewResultExporter(paths, opts.format, cfg.Pipeline.BOMPrefix, logger)
	if err := out.ExportAll(results); err != nil {
		return err
	}

	if opts.force {
		for _, subject := range subjects {
			if err := exportForces(ctx, loader, out, opts.base, subject, ext); err != nil {
				return err
			}
		}
	}

	rows := 0
	for _, r := range results {
		rows += len(r.Presses)
	}
	logger.InfoContext(ctx, "processing completed",
		slog.Int("subjects", len(results)),
		slog.Int("press_rows", rows),
		slog.String("output_dir", paths.OutputDir),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func exportForces(ctx context.Context, loader *dataprocessing.Loader, out *exporter.ResultExporter, base string, subject int, ext string) error {
	samples, err := loader.LoadForceFile(ctx, files.ForceFileName(base, subject, ext))
	if err != nil {
		return fmt.Errorf("load subject %d forces: %w", subject, err)
	}
	events, err := dataprocessing.MeltForces(samples)
	if err != nil {
		return fmt.Errorf("melt subject %d forces: %w", subject, err)
	}
	return out.ExportForces(subject, events)
}
