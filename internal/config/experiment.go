package config

import (
	"fmt"
	"time"

	apperrors "sicli/internal/errors"
)

// Experiment is the immutable description of the sequence-interference
// design: the per-group sequence lists, the digit-change positions and the
// trial timing constants. It is built once and passed by value to every
// component that classifies rows.
type Experiment struct {
	groups      [GroupCount][SequencesPerGroup]string
	digitChange []int
	seqLength   int
	iti         time.Duration
	execTime    time.Duration
	precueTime  time.Duration
	hand        int
}

// NewExperiment validates an ExperimentConfig and freezes it.
func NewExperiment(cfg ExperimentConfig) (Experiment, error) {
	var exp Experiment

	lists := [GroupCount][]string{cfg.Group0, cfg.Group1}
	for g, list := range lists {
		if len(list) != SequencesPerGroup {
			return Experiment{}, apperrors.NewConfigError(
				fmt.Sprintf("group %d must list %d sequences, got %d", g, SequencesPerGroup, len(list)), nil)
		}
		copy(exp.groups[g][:], list)
	}

	exp.seqLength = len(exp.groups[0][0])
	if exp.seqLength == 0 {
		return Experiment{}, apperrors.NewConfigError("sequences must not be empty", nil)
	}
	for g := range exp.groups {
		for i, seq := range exp.groups[g] {
			if len(seq) != exp.seqLength {
				return Experiment{}, apperrors.NewConfigError(
					fmt.Sprintf("group %d sequence %d has length %d, want %d", g, i, len(seq), exp.seqLength), nil)
			}
		}
	}

	// The untrained pair of each group is the trained pair of the other.
	for i := 0; i < 2; i++ {
		if exp.groups[0][i] != exp.groups[1][i+2] || exp.groups[1][i] != exp.groups[0][i+2] {
			return Experiment{}, apperrors.NewConfigError("group sequence lists are not complementary", nil)
		}
	}

	for _, pos := range cfg.DigitChangePositions {
		if pos < 1 || pos > exp.seqLength {
			return Experiment{}, apperrors.NewConfigError(
				fmt.Sprintf("digit change position %d outside 1..%d", pos, exp.seqLength), nil)
		}
	}
	exp.digitChange = append([]int(nil), cfg.DigitChangePositions...)

	exp.iti = time.Duration(cfg.ITIMs) * time.Millisecond
	exp.execTime = time.Duration(cfg.ExecTimeMs) * time.Millisecond
	exp.precueTime = time.Duration(cfg.PrecueTimeMs) * time.Millisecond
	exp.hand = cfg.Hand

	return exp, nil
}

// DefaultExperiment returns the experiment as it was run.
func DefaultExperiment() Experiment {
	exp, err := NewExperiment(DefaultExperimentConfig())
	if err != nil {
		panic(fmt.Sprintf("default experiment is invalid: %v", err))
	}
	return exp
}

// Sequences returns a copy of the group's four sequences.
func (e Experiment) Sequences(group int) ([]string, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	list := e.groups[group]
	return list[:], nil
}

// TrainedSequences returns the group's trained pair.
func (e Experiment) TrainedSequences(group int) ([]string, error) {
	seqs, err := e.Sequences(group)
	if err != nil {
		return nil, err
	}
	return seqs[:2], nil
}

// UntrainedSequences returns the group's untrained pair.
func (e Experiment) UntrainedSequences(group int) ([]string, error) {
	seqs, err := e.Sequences(group)
	if err != nil {
		return nil, err
	}
	return seqs[2:], nil
}

// SeqLength is the number of presses per trial.
func (e Experiment) SeqLength() int { return e.seqLength }

// DigitChangePositions returns a copy of the candidate change positions.
func (e Experiment) DigitChangePositions() []int {
	return append([]int(nil), e.digitChange...)
}

// ITI is the inter-trial interval.
func (e Experiment) ITI() time.Duration { return e.iti }

// ExecTime is the maximum execution time of a trial.
func (e Experiment) ExecTime() time.Duration { return e.execTime }

// PrecueTime is the planning interval before movement.
func (e Experiment) PrecueTime() time.Duration { return e.precueTime }

// Hand is the hand code of the experiment.
func (e Experiment) Hand() int { return e.hand }

func checkGroup(group int) error {
	if group < 0 || group >= GroupCount {
		return apperrors.NewAppValidationError(fmt.Sprintf("group %d outside 0..%d", group, GroupCount-1)).
			WithContext("group", group)
	}
	return nil
}
