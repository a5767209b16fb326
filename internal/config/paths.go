package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories of a processing run
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string

	// Output subdirectories
	PressesDir   string
	ForcesDir    string
	SummariesDir string
	CombinedDir  string
}

// ResolvePaths anchors the configured directories at baseDir. Absolute
// entries are kept as they are.
func ResolvePaths(baseDir string, cfg PathsConfig) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	outputDir := resolve(cfg.OutputDir)
	return &Paths{
		DataDir:      resolve(cfg.DataDir),
		OutputDir:    outputDir,
		LogsDir:      resolve(cfg.LogsDir),
		PressesDir:   filepath.Join(outputDir, "presses"),
		ForcesDir:    filepath.Join(outputDir, "forces"),
		SummariesDir: filepath.Join(outputDir, "summaries"),
		CombinedDir:  filepath.Join(outputDir, "combined"),
	}
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.LogsDir,
		p.PressesDir,
		p.ForcesDir,
		p.SummariesDir,
		p.CombinedDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetPressPath returns the long-format press table path of a subject
func (p *Paths) GetPressPath(subject int, ext string) string {
	return filepath.Join(p.PressesDir, fmt.Sprintf("subject_%d_presses%s", subject, ext))
}

// GetForcePath returns the long-format force table path of a subject
func (p *Paths) GetForcePath(subject int, ext string) string {
	return filepath.Join(p.ForcesDir, fmt.Sprintf("subject_%d_forces%s", subject, ext))
}

// GetTrialPath returns the per-trial timing table path of a subject
func (p *Paths) GetTrialPath(subject int, ext string) string {
	return filepath.Join(p.PressesDir, fmt.Sprintf("subject_%d_trials%s", subject, ext))
}

// GetAnomalyPath returns the interval anomaly report path
func (p *Paths) GetAnomalyPath(ext string) string {
	return filepath.Join(p.SummariesDir, "interval_anomalies"+ext)
}

// GetSummaryPath returns the per-condition summary path
func (p *Paths) GetSummaryPath(ext string) string {
	return filepath.Join(p.SummariesDir, "condition_summary"+ext)
}

// GetCombinedPath returns the all-subjects press table path
func (p *Paths) GetCombinedPath(ext string) string {
	return filepath.Join(p.CombinedDir, "all_presses"+ext)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
