package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Pipeline   PipelineConfig   `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Experiment ExperimentConfig `yaml:"experiment" envconfig:"EXPERIMENT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir     string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	FileBase      string `yaml:"file_base" envconfig:"FILE_BASE" validate:"required"`
	FileExtension string `yaml:"file_extension" envconfig:"FILE_EXTENSION" validate:"required,startswith=."`
}

// PipelineConfig controls which stages run and how results are written
type PipelineConfig struct {
	// Filter selects the error filter applied to press rows
	Filter string `yaml:"filter" envconfig:"FILTER" validate:"oneof=none trials presses next remaining"`
	// AllowMismatch keeps the silent-drop join behavior instead of failing
	AllowMismatch bool `yaml:"allow_mismatch" envconfig:"ALLOW_MISMATCH"`
	// Workers bounds concurrent subject processing; 1 is sequential
	Workers      int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	OutputFormat string `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=csv tsv xlsx"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	// MetricsFile is a Prometheus textfile written at exit; empty disables it
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// ExperimentConfig is the raw, serializable form of Experiment
type ExperimentConfig struct {
	Group0               []string `yaml:"group0" envconfig:"GROUP0" validate:"len=4,dive,fingerseq"`
	Group1               []string `yaml:"group1" envconfig:"GROUP1" validate:"len=4,dive,fingerseq"`
	DigitChangePositions []int    `yaml:"digit_change_positions" envconfig:"DIGIT_CHANGE_POSITIONS" validate:"min=1,dive,min=1"`
	ITIMs                int      `yaml:"iti_ms" envconfig:"ITI_MS" validate:"min=0"`
	ExecTimeMs           int      `yaml:"exec_time_ms" envconfig:"EXEC_TIME_MS" validate:"min=0"`
	PrecueTimeMs         int      `yaml:"precue_time_ms" envconfig:"PRECUE_TIME_MS" validate:"min=0"`
	Hand                 int      `yaml:"hand" envconfig:"HAND"`
}

var fingerSeqPattern = regexp.MustCompile(`^[1-5]+$`)

// Load builds the configuration from defaults, an optional YAML file and
// SI_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the current value in place since no field carries a default tag.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML onto cfg; keys absent from the file keep their values
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the experiment invariants
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("fingerseq", isFingerSequence); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}

	if _, err := NewExperiment(c.Experiment); err != nil {
		return err
	}
	return nil
}

// BuildExperiment returns the frozen experiment description.
func (c *Config) BuildExperiment() (Experiment, error) {
	return NewExperiment(c.Experiment)
}

func isFingerSequence(fl validator.FieldLevel) bool {
	return fingerSeqPattern.MatchString(fl.Field().String())
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// DefaultExperimentConfig returns the experiment as it was run
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Group0:               append([]string(nil), DefaultGroupSequences[0][:]...),
		Group1:               append([]string(nil), DefaultGroupSequences[1][:]...),
		DigitChangePositions: append([]int(nil), DefaultDigitChangePositions...),
		ITIMs:                DefaultITIMs,
		ExecTimeMs:           DefaultExecTimeMs,
		PrecueTimeMs:         DefaultPrecueTimeMs,
		Hand:                 DefaultHand,
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/processor.log",
		},
		Paths: PathsConfig{
			DataDir:       DefaultDataDir,
			OutputDir:     DefaultOutputDir,
			LogsDir:       DefaultLogsDir,
			FileBase:      DefaultFileBase,
			FileExtension: DefaultFileExtension,
		},
		Pipeline: PipelineConfig{
			Filter:       "none",
			Workers:      1,
			OutputFormat: "csv",
			BOMPrefix:    false,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			Environment:   "development",
		},
		Experiment: DefaultExperimentConfig(),
	}
}
