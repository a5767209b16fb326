package exporter

import (
	"fmt"
	"strconv"

	"sicli/pkg/contracts/domain"
)

// Format selects how tables are encoded on disk.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatTSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// formatFloat uses the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatCell renders one table cell as text. Masked timings become "inf".
func formatCell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return formatInt(v)
	case float64:
		return formatFloat(v)
	case bool:
		return formatBool(v)
	case domain.Timing:
		return v.String()
	case domain.SequenceCondition:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// sheetCell converts a cell to a value excelize stores natively.
func sheetCell(v any) any {
	switch v := v.(type) {
	case domain.Timing:
		if x, ok := v.Value(); ok {
			return x
		}
		return domain.MaskedText
	case domain.SequenceCondition:
		return string(v)
	default:
		return v
	}
}
