package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicli/pkg/contracts/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantExt string
		wantErr bool
	}{
		{in: "", want: FormatCSV, wantExt: ".csv"},
		{in: "csv", want: FormatCSV, wantExt: ".csv"},
		{in: "tsv", want: FormatTSV, wantExt: ".tsv"},
		{in: "xlsx", want: FormatXLSX, wantExt: ".xlsx"},
		{in: "parquet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantExt, got.Extension())
		})
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "string", value: "13524232514", expected: "13524232514"},
		{name: "int", value: 42, expected: "42"},
		{name: "int64", value: int64(-100), expected: "-100"},
		{name: "whole float", value: 450.0, expected: "450"},
		{name: "fractional float", value: 0.125, expected: "0.125"},
		{name: "bool", value: true, expected: "true"},
		{name: "timing", value: domain.TimingOf(215), expected: "215"},
		{name: "masked timing", value: domain.MaskedTiming(), expected: "inf"},
		{name: "infinite input is masked", value: domain.TimingOf(math.Inf(1)), expected: "inf"},
		{name: "condition", value: domain.ConditionUntrained, expected: "untrained"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.value))
		})
	}
}

func TestSheetCell(t *testing.T) {
	assert.Equal(t, 215.0, sheetCell(domain.TimingOf(215)))
	assert.Equal(t, "inf", sheetCell(domain.MaskedTiming()))
	assert.Equal(t, "random", sheetCell(domain.ConditionRandom))
	assert.Equal(t, 7, sheetCell(7))
}
