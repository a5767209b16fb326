package dataprocessing

import (
	"fmt"
	"strings"

	"sicli/internal/config"
	apperrors "sicli/internal/errors"
	"sicli/pkg/contracts/domain"
)

// ChangeWindowRadius is how many intervals on each side of the digit-change
// position count as around the change.
const ChangeWindowRadius = 2

// Attributed is any row that carries trial attributes.
type Attributed interface {
	Attrs() domain.TrialAttrs
}

// Mask is a boolean column, one entry per row.
type Mask []bool

// And returns the element-wise conjunction. Lengths must match.
func (m Mask) And(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && o[i]
	}
	return out
}

// Or returns the element-wise disjunction. Lengths must match.
func (m Mask) Or(o Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || o[i]
	}
	return out
}

// Not returns the element-wise negation.
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = !m[i]
	}
	return out
}

// Count returns the number of true entries.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Select keeps the rows whose mask entry is true, in order.
func Select[R any](rows []R, m Mask) []R {
	out := make([]R, 0, m.Count())
	for i, r := range rows {
		if m[i] {
			out = append(out, r)
		}
	}
	return out
}

// MaskOf evaluates pred over every row.
func MaskOf[R any](rows []R, pred func(R) bool) Mask {
	m := make(Mask, len(rows))
	for i, r := range rows {
		m[i] = pred(r)
	}
	return m
}

// Classifier labels rows by the sequence set their executed sequence
// belongs to. It holds no state besides the experiment it was built from.
type Classifier struct {
	exp       config.Experiment
	trained   [config.GroupCount]map[string]bool
	untrained [config.GroupCount]map[string]bool
}

// NewClassifier builds a classifier over the given experiment.
func NewClassifier(exp config.Experiment) *Classifier {
	c := &Classifier{exp: exp}
	for g := 0; g < config.GroupCount; g++ {
		c.trained[g] = make(map[string]bool)
		c.untrained[g] = make(map[string]bool)
		trained, _ := exp.TrainedSequences(g)
		for _, s := range trained {
			c.trained[g][s] = true
		}
		untrained, _ := exp.UntrainedSequences(g)
		for _, s := range untrained {
			c.untrained[g][s] = true
		}
	}
	return c
}

// Experiment returns the experiment the classifier was built from.
func (c *Classifier) Experiment() config.Experiment {
	return c.exp
}

func (c *Classifier) group(a domain.TrialAttrs) (int, error) {
	if a.Group < 0 || a.Group >= config.GroupCount {
		return 0, apperrors.NewAppValidationError(fmt.Sprintf("group %d outside 0..%d", a.Group, config.GroupCount-1)).
			WithContext("group", a.Group).
			WithContext("BN", a.BN).
			WithContext("TN", a.TN).
			WithContext("SubNum", a.SubNum)
	}
	return a.Group, nil
}

// IsTrainedSeq reports whether seq is one of the group's two trained sequences.
func (c *Classifier) IsTrainedSeq(a domain.TrialAttrs) (bool, error) {
	g, err := c.group(a)
	if err != nil {
		return false, err
	}
	return c.trained[g][a.Seq], nil
}

// IsUntrainedSeq reports whether seq is one of the group's untrained pair.
func (c *Classifier) IsUntrainedSeq(a domain.TrialAttrs) (bool, error) {
	g, err := c.group(a)
	if err != nil {
		return false, err
	}
	return c.untrained[g][a.Seq], nil
}

// IsRandSeq reports whether seq is none of the group's four sequences.
func (c *Classifier) IsRandSeq(a domain.TrialAttrs) (bool, error) {
	g, err := c.group(a)
	if err != nil {
		return false, err
	}
	return !c.trained[g][a.Seq] && !c.untrained[g][a.Seq], nil
}

// IsDigitChanged reports a trained-sequence trial whose sequence differs from its cue.
func (c *Classifier) IsDigitChanged(a domain.TrialAttrs) (bool, error) {
	trained, err := c.IsTrainedSeq(a)
	if err != nil {
		return false, err
	}
	return trained && a.Seq != a.Cue, nil
}

// Condition returns the sequence condition label of a row.
func (c *Classifier) Condition(a domain.TrialAttrs) (domain.SequenceCondition, error) {
	g, err := c.group(a)
	if err != nil {
		return "", err
	}
	switch {
	case c.trained[g][a.Seq]:
		return domain.ConditionTrained, nil
	case c.untrained[g][a.Seq]:
		return domain.ConditionUntrained, nil
	default:
		return domain.ConditionRandom, nil
	}
}

// CheckWindowAroundChangePress reports whether an IPI label such as "IPI5"
// lies within ChangeWindowRadius of the digit-change position.
func CheckWindowAroundChangePress(ipiNumber string, changePos int) bool {
	if !strings.HasPrefix(ipiNumber, PrefixIPI) {
		return false
	}
	for x := changePos - ChangeWindowRadius; x <= changePos+ChangeWindowRadius; x++ {
		if ipiNumber == IPIColumn(x) {
			return true
		}
	}
	return false
}

// attrMask evaluates a fallible predicate over the trial attributes of rows.
func attrMask[R Attributed](rows []R, pred func(domain.TrialAttrs) (bool, error)) (Mask, error) {
	m := make(Mask, len(rows))
	for i, r := range rows {
		v, err := pred(r.Attrs())
		if err != nil {
			return nil, err
		}
		m[i] = v
	}
	return m, nil
}

// TrainedMask is the columnar form of IsTrainedSeq.
func TrainedMask[R Attributed](c *Classifier, rows []R) (Mask, error) {
	return attrMask(rows, c.IsTrainedSeq)
}

// UntrainedMask is the columnar form of IsUntrainedSeq.
func UntrainedMask[R Attributed](c *Classifier, rows []R) (Mask, error) {
	return attrMask(rows, c.IsUntrainedSeq)
}

// RandomMask is the columnar form of IsRandSeq.
func RandomMask[R Attributed](c *Classifier, rows []R) (Mask, error) {
	return attrMask(rows, c.IsRandSeq)
}

// DigitChangedMask is the columnar form of IsDigitChanged.
func DigitChangedMask[R Attributed](c *Classifier, rows []R) (Mask, error) {
	trained, err := TrainedMask(c, rows)
	if err != nil {
		return nil, err
	}
	changed := MaskOf(rows, func(r R) bool {
		a := r.Attrs()
		return a.Seq != a.Cue
	})
	return trained.And(changed), nil
}

// ChangeWindowMask is the columnar form of CheckWindowAroundChangePress.
func ChangeWindowMask(events []domain.PressEvent) Mask {
	return MaskOf(events, func(e domain.PressEvent) bool {
		return CheckWindowAroundChangePress(e.IPINumber, e.DigitChangePos)
	})
}
