// Package config provides centralized configuration management for the
// sequence-interference log processor. It loads configuration from multiple
// sources, validates it, and freezes the experiment description that every
// classification component receives.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SI_* for namespacing:
//
//	SI_LOGGING_LEVEL=debug
//	SI_PATHS_DATA_DIR=/data/SI1
//	SI_PIPELINE_FILTER=remaining
//	SI_PIPELINE_WORKERS=4
//	SI_EXPERIMENT_DIGIT_CHANGE_POSITIONS=4,6,8
//
// # Experiment
//
// The Experiment value is immutable. Build it once from the loaded config and
// pass it to the classifier:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp, err := cfg.BuildExperiment()
//
// # Testing
//
// Use config.Default() or config.DefaultExperiment() for tests; neither reads
// the environment or the file system.
package config
