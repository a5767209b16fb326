package config

import "time"

// Application constants for the sequence-interference log processor
const (
	// Application Info
	AppName = "SI Processor"

	// EnvPrefix namespaces every environment variable (SI_LOGGING_LEVEL, ...)
	EnvPrefix = "SI"

	// ConfigFileEnv points at an explicit YAML config file
	ConfigFileEnv = "SI_CONFIG_FILE"

	// File naming: <base>_<subject><ext>
	DefaultFileBase      = "SequenceInterference"
	DefaultFileExtension = ".dat"

	// File Paths (relative to the working directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "data/processed"
	DefaultLogsDir   = "logs"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Experiment timing, milliseconds
	DefaultITIMs        = 3000  // inter-trial interval
	DefaultExecTimeMs   = 10000 // maximum execution time per trial
	DefaultPrecueTimeMs = 1500  // planning time before movement

	// DefaultHand is the hand code used in the experiment (2 = right)
	DefaultHand = 2

	// GroupCount is the number of between-subject training groups
	GroupCount = 2

	// SequencesPerGroup is the trained pair followed by the untrained pair
	SequencesPerGroup = 4
)

// DefaultGroupSequences lists each group's trained pair followed by its
// untrained pair. Group 1 trains on group 0's untrained pair and vice versa.
var DefaultGroupSequences = [GroupCount][SequencesPerGroup]string{
	{"13524232514", "35421252143", "51423252413", "14325242135"},
	{"51423252413", "14325242135", "13524232514", "35421252143"},
}

// DefaultDigitChangePositions are the candidate positions of the changed digit.
var DefaultDigitChangePositions = []int{4, 6, 8}

// Fingers maps finger digits as they appear in sequences.
var Fingers = []string{"1", "2", "3", "4", "5"}

// DefaultRunTimeout bounds a whole batch run.
const DefaultRunTimeout = 30 * time.Minute
