package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "sicli/internal/errors"
)

// Column names of the trial table.
const (
	ColBN                 = "BN"
	ColTN                 = "TN"
	ColSubNum             = "SubNum"
	ColGroup              = "group"
	ColHand               = "hand"
	ColIsTrain            = "isTrain"
	ColSeq                = "seq"
	ColCue                = "cue"
	ColWindowSize         = "windowSize"
	ColDigitChangePos     = "digitChangePos"
	ColIsError            = "isError"
	ColTimingError        = "timingError"
	ColIsCross            = "isCross"
	ColCrossTime          = "crossTime"
	ColRT                 = "RT"
	ColTimeThreshold      = "timeThreshold"
	ColTimeThresholdSuper = "timeThresholdSuper"

	ColState    = "state"
	ColTimeReal = "timeReal"
	ColTime     = "time"
	ColNormMT   = "norm_MT"
)

// Wide column prefixes.
const (
	PrefixPressTime = "pressTime"
	PrefixPress     = "press"
	PrefixResponse  = "response"
	PrefixIPI       = "IPI"
	PrefixForce     = "force"
)

// unnamedPrefix marks index columns left behind by spreadsheet exports.
const unnamedPrefix = "Unnamed"

// trialAttrColumns are the columns every long-format row inherits.
var trialAttrColumns = []string{
	ColBN, ColTN, ColSubNum, ColGroup, ColHand, ColIsTrain, ColSeq, ColCue,
	ColWindowSize, ColDigitChangePos, ColIsError, ColTimingError,
}

// TrialSchema lists the columns a trial table must carry.
var TrialSchema = append(append([]string{}, trialAttrColumns...), ColIsCross, ColCrossTime, ColRT)

// ForceSchema lists the columns a force table must carry besides force channels.
var ForceSchema = append(append([]string{ColState, ColTimeReal, ColTime}, trialAttrColumns...), ColIsCross, ColCrossTime, ColNormMT)

// table is a delimited file held as text, addressed by header name.
type table struct {
	source string
	header []string
	index  map[string]int
	rows   [][]string
	lines  []int
}

// readTable reads a tab-delimited file with one header row.
func readTable(ctx context.Context, path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(path)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	return parseTable(ctx, path, f)
}

func parseTable(ctx context.Context, source string, r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: empty file", source), nil).
			WithContext("file", source)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: failed to read header", source), err).
			WithContext("file", source)
	}

	t := &table{source: source, index: make(map[string]int)}
	for i, name := range headerRow {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, unnamedPrefix) {
			continue
		}
		if _, dup := t.index[name]; dup {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s: duplicate column %q", source, name), nil).
				WithContext("file", source).
				WithContext("column", name)
		}
		t.index[name] = i
		t.header = append(t.header, name)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s: malformed row", source), err).
				WithContext("file", source)
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}

	return t, nil
}

// require fails with a schema error naming the first absent column.
func (t *table) require(columns []string) error {
	for _, col := range columns {
		if _, ok := t.index[col]; !ok {
			return apperrors.NewSchemaError(t.source, col)
		}
	}
	return nil
}

func (t *table) has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// cursor decodes the cells of one row. The first failure sticks and later
// reads return zero values.
type cursor struct {
	t   *table
	row int
	err error
}

func (t *table) cursor(row int) *cursor {
	return &cursor{t: t, row: row}
}

func (c *cursor) cell(column string) (string, bool) {
	if c.err != nil {
		return "", false
	}
	idx, ok := c.t.index[column]
	if !ok {
		c.err = apperrors.NewSchemaError(c.t.source, column)
		return "", false
	}
	record := c.t.rows[c.row]
	if idx >= len(record) {
		c.fail(column, "", errors.New("missing value"))
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}

func (c *cursor) fail(column, value string, cause error) {
	c.err = apperrors.NewParsingError(
		fmt.Sprintf("%s:%d: column %q: cannot parse %q", c.t.source, c.t.lines[c.row], column, value), cause).
		WithContext("file", c.t.source).
		WithContext("line", c.t.lines[c.row]).
		WithContext("column", column)
}

func (c *cursor) int64(column string) int64 {
	s, ok := c.cell(column)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		c.fail(column, s, err)
		return 0
	}
	return v
}

func (c *cursor) int(column string) int {
	return int(c.int64(column))
}

func (c *cursor) float(column string) float64 {
	s, ok := c.cell(column)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.fail(column, s, err)
		return 0
	}
	return v
}

func (c *cursor) text(column string) string {
	s, _ := c.cell(column)
	return s
}
