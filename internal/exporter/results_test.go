package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicli/internal/config"
	"sicli/internal/dataprocessing"
	"sicli/pkg/contracts/domain"
)

func fixtureResult(subject int) *dataprocessing.SubjectResult {
	attrs := domain.TrialAttrs{BN: 1, TN: 1, SubNum: subject, Hand: 2, Seq: "13524232514", Cue: "13524232514"}
	press := func(n int, ipi int64, pressErr bool) domain.AnnotatedPress {
		e := domain.PressEvent{
			TrialAttrs:   attrs,
			N:            n,
			IPINumber:    dataprocessing.IPIColumn(n - 1),
			IPIValue:     ipi,
			IsPressError: pressErr,
		}
		return domain.AnnotatedPress{
			PressEvent: e,
			Condition:  domain.ConditionTrained,
			TrialIPI:   dataprocessing.MaskErrorTrialIPI(e),
			PressIPI:   dataprocessing.MaskErrorPressIPI(e),
		}
	}
	presses := []domain.AnnotatedPress{press(1, 450, false), press(2, 200, true)}

	return &dataprocessing.SubjectResult{
		Subject: subject,
		Trials:  1,
		Presses: presses,
		Timings: []dataprocessing.TrialTiming{{
			TrialAttrs: attrs,
			RT:         domain.TimingOf(450),
			MT:         domain.TimingOf(2000),
			ET:         domain.TimingOf(2450),
		}},
		Anomalies: []dataprocessing.IntervalAnomaly{{Trial: attrs.Key(), Interval: "IPI3", Value: -5}},
		Summaries: dataprocessing.Summarize(presses, dataprocessing.SelectPressIPI),
	}
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths := config.ResolvePaths(t.TempDir(), config.PathsConfig{DataDir: "data", OutputDir: "out", LogsDir: "logs"})
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestResultExporter_CSV(t *testing.T) {
	paths := testPaths(t)
	exp := NewResultExporter(paths, FormatCSV, false, quietLogger())
	results := []*dataprocessing.SubjectResult{fixtureResult(1), fixtureResult(2)}

	require.NoError(t, exp.ExportAll(results))

	presses := readDelimited(t, paths.GetPressPath(1, ".csv"), ',')
	require.Len(t, presses, 3)
	header := presses[0]
	assert.Equal(t, "BN", header[0])
	assert.Equal(t, "press_IPI", header[len(header)-1])
	assert.Equal(t, "inf", presses[2][len(header)-1])
	assert.Equal(t, "200", presses[2][len(header)-2])

	trials := readDelimited(t, paths.GetTrialPath(2, ".csv"), ',')
	assert.Equal(t, []string{"RT", "MT", "ET"}, trials[0][len(trials[0])-3:])
	assert.Equal(t, []string{"450", "2000", "2450"}, trials[1][len(trials[1])-3:])

	combined := readDelimited(t, paths.GetCombinedPath(".csv"), ',')
	assert.Len(t, combined, 5)

	summary := readDelimited(t, paths.GetSummaryPath(".csv"), ',')
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"1", "trained", "2", "1", "1", "1", "450", "450", "0", "0.5"}, summary[1])

	anomalies := readDelimited(t, paths.GetAnomalyPath(".csv"), ',')
	assert.Equal(t, []string{"1", "1", "2", "IPI3", "-5"}, anomalies[2])
}

func TestResultExporter_TSVForces(t *testing.T) {
	paths := testPaths(t)
	exp := NewResultExporter(paths, FormatTSV, true, quietLogger())

	events := []domain.ForceEvent{{
		State: 3, TimeReal: 0.25, Time: 0.002,
		TrialAttrs:  domain.TrialAttrs{BN: 1, TN: 4, SubNum: 9},
		NormMT:      0.75,
		ForceNumber: "force2",
		ForceValue:  1.5,
	}}
	require.NoError(t, exp.ExportForces(9, events))

	records := readDelimited(t, paths.GetForcePath(9, ".tsv"), '\t')
	require.Len(t, records, 2)
	assert.Equal(t, []string{"state", "timeReal", "time", "BN"}, records[0][:4])
	assert.Equal(t, []string{"force2", "1.5"}, records[1][len(records[1])-2:])
}

func TestResultExporter_XLSX(t *testing.T) {
	paths := testPaths(t)
	exp := NewResultExporter(paths, FormatXLSX, false, quietLogger())
	_, isXLSX := exp.Writer().(*XLSXWriter)
	assert.True(t, isXLSX)

	require.NoError(t, exp.ExportAll([]*dataprocessing.SubjectResult{fixtureResult(3)}))

	book := openWorkbook(t, paths.GetPressPath(3, ".xlsx"))
	assert.Equal(t, []string{"presses", "trials"}, book.GetSheetList())

	summary := openWorkbook(t, paths.GetSummaryPath(".xlsx"))
	assert.Equal(t, []string{"summary", "anomalies"}, summary.GetSheetList())

	rows, err := openWorkbook(t, paths.GetCombinedPath(".xlsx")).GetRows("presses")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
