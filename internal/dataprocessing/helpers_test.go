package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sicli/pkg/contracts/domain"
)

const (
	trainedG0   = "13524232514"
	trainedG0b  = "35421252143"
	untrainedG0 = "51423252413"
	randomSeq   = "99999999999"
	seqLen      = 11
)

// trialFixture describes a fixture trial. Zero fields take defaults: press
// times 1000, 1200, ...; presses and responses equal the digits of Seq.
type trialFixture struct {
	BN, TN, SubNum, Group int
	Seq, Cue              string
	IsError, TimingError  int
	ChangePos             int
	RT                    int
	Times                 []int64
	Presses               []int64
	Responses             []int64
}

func (s trialFixture) withDefaults() trialFixture {
	if s.Seq == "" {
		s.Seq = trainedG0
	}
	if s.Cue == "" {
		s.Cue = s.Seq
	}
	if s.SubNum == 0 {
		s.SubNum = 1
	}
	if s.BN == 0 {
		s.BN = 1
	}
	if s.RT == 0 {
		s.RT = 450
	}
	if s.Times == nil {
		s.Times = make([]int64, seqLen)
		for i := range s.Times {
			s.Times[i] = 1000 + 200*int64(i)
		}
	}
	if s.Presses == nil {
		s.Presses = digits(s.Seq)
	}
	if s.Responses == nil {
		s.Responses = append([]int64(nil), s.Presses...)
	}
	return s
}

func digits(seq string) []int64 {
	out := make([]int64, len(seq))
	for i, r := range seq {
		out[i] = int64(r - '0')
	}
	return out
}

// withPressError makes the press at ordinal n differ from the expected digit.
func (s trialFixture) withPressError(ns ...int) trialFixture {
	s = s.withDefaults()
	s.Presses = append([]int64(nil), s.Presses...)
	for _, n := range ns {
		s.Presses[n-1] = (s.Responses[n-1] % 5) + 1
	}
	return s
}

func (s trialFixture) trial() domain.Trial {
	s = s.withDefaults()
	t := domain.Trial{
		TrialAttrs: domain.TrialAttrs{
			BN: s.BN, TN: s.TN, SubNum: s.SubNum, Group: s.Group, Hand: 2,
			Seq: s.Seq, Cue: s.Cue, WindowSize: 1, DigitChangePos: s.ChangePos,
			IsError: s.IsError, TimingError: s.TimingError,
		},
		RT:            s.RT,
		TimeThreshold: 3.5,
	}
	for i, v := range s.Times {
		t.Columns = append(t.Columns, domain.Column{Name: PressTimeColumn(i + 1), Value: v})
	}
	for i, v := range s.Presses {
		t.Columns = append(t.Columns, domain.Column{Name: "press" + strconv.Itoa(i+1), Value: v})
	}
	for i, v := range s.Responses {
		t.Columns = append(t.Columns, domain.Column{Name: "response" + strconv.Itoa(i+1), Value: v})
	}
	return t
}

func trials(specs ...trialFixture) []domain.Trial {
	out := make([]domain.Trial, len(specs))
	for i, s := range specs {
		out[i] = s.trial()
	}
	return out
}

// pressEvents runs the fixture trials through AddIPI and FingerMelt and
// returns rows ordered by trial then N.
func pressEvents(t *testing.T, specs ...trialFixture) []domain.PressEvent {
	t.Helper()
	withIPI, _, err := AddIPI(trials(specs...), seqLen)
	require.NoError(t, err)
	events, _, err := FingerMelt(withIPI, MergeOptions{})
	require.NoError(t, err)
	sortByTrial(events, withIPI)
	return events
}

func ordinals(events []domain.PressEvent, tn int) []int {
	var out []int
	for _, e := range events {
		if e.TN == tn {
			out = append(out, e.N)
		}
	}
	return out
}

var fixtureHeader = []string{
	"Unnamed: 0", "BN", "TN", "SubNum", "group", "hand", "isTrain", "seq", "cue", "windowSize",
	"digitChangePos", "isError", "timingError", "isCross", "crossTime", "RT",
	"timeThreshold", "timeThresholdSuper",
}

// renderTable writes fixture trials in the tab-delimited log format.
func renderTable(specs ...trialFixture) string {
	header := append([]string(nil), fixtureHeader...)
	for i := 1; i <= seqLen; i++ {
		header = append(header, PressTimeColumn(i))
	}
	for i := 1; i <= seqLen; i++ {
		header = append(header, "press"+strconv.Itoa(i))
	}
	for i := 1; i <= seqLen; i++ {
		header = append(header, "response"+strconv.Itoa(i))
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteString("\n")
	for idx, s := range specs {
		s = s.withDefaults()
		row := []string{
			strconv.Itoa(idx), strconv.Itoa(s.BN), strconv.Itoa(s.TN), strconv.Itoa(s.SubNum),
			strconv.Itoa(s.Group), "2", "0", s.Seq, s.Cue, "1", strconv.Itoa(s.ChangePos),
			strconv.Itoa(s.IsError), strconv.Itoa(s.TimingError), "0", "0", strconv.Itoa(s.RT),
			"3.5", "4.25",
		}
		for _, group := range [][]int64{s.Times, s.Presses, s.Responses} {
			for _, v := range group {
				row = append(row, strconv.FormatInt(v, 10))
			}
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func subjectFile(t *testing.T, dir string, subject int, specs ...trialFixture) string {
	t.Helper()
	for i := range specs {
		specs[i].SubNum = subject
	}
	return writeFile(t, dir, fmt.Sprintf("SI_%d.dat", subject), renderTable(specs...))
}
