// Package dataprocessing turns finger-sequence experiment logs into
// analysis-ready long tables.
//
// # Architecture
//
// A subject's log is processed by a fixed chain of stages, each a function
// that returns new rows and never mutates its input:
//
//  1. Loader: reads a tab-delimited trial table (LoadFile, LoadSubjects)
//  2. Intervals: derives IPI columns from press times (AddIPI)
//  3. Melt: turns numbered wide columns into long rows (MeltIntervals,
//     MeltPresses, MeltResponses, MeltForces)
//  4. Merge: joins the long views into one row per press (Merge, FingerMelt)
//  5. Filters: drop erroneous trials or presses (RemoveErrorTrials and friends)
//  6. Classifier: labels rows by sequence condition (Classifier, Mask)
//  7. Masker: hides timings of erroneous rows (MaskIf, MaskErrorPressIPI)
//
// Summarize aggregates annotated presses per subject and condition.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{})
//	pipeline := dataprocessing.NewPipeline(logger, exp, dataprocessing.PipelineConfig{
//	    Filter:  dataprocessing.FilterRemaining,
//	    Workers: 4,
//	})
//	results, err := pipeline.RunFiles(ctx, loader, "data/SequenceInterference", []int{1, 2, 3})
//
// # Join mismatches
//
// Merge fails with a JOIN_MISMATCH error when the interval, press and
// response views do not cover the same ordinals. Set
// MergeOptions.AllowMismatch (or PipelineConfig.AllowMismatch) to drop the
// unmatched rows with a warning instead.
package dataprocessing
