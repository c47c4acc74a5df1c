package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
)

// ExportWeeklyCSV renders rows with one header line. An empty report renders as "".
func ExportWeeklyCSV(rows []report.WeeklyReportRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	records := make([][]any, len(rows))
	for i, row := range rows {
		records[i] = weeklyValues(row)
	}
	return writeCSV(weeklyHeader(rows), records)
}

// ExportMonthlyCSV renders rows with one header line. An empty report renders as "".
func ExportMonthlyCSV(rows []report.MonthlyReportRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	records := make([][]any, len(rows))
	for i, row := range rows {
		records[i] = monthlyValues(row)
	}
	return writeCSV(monthlyHeader(rows), records)
}

func writeCSV(header []string, records [][]any) (string, error) {
	var b strings.Builder
	writeCSVLine(&b, header)
	for _, values := range records {
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellString(v)
		}
		writeCSVLine(&b, record)
	}
	return b.String(), nil
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSVField(f))
	}
	b.WriteByte('\n')
}

// escapeCSVField quotes a field only when it holds a comma, a double quote or
// a newline. Embedded quotes are doubled.
func escapeCSVField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// ParseCSV reads CSV text back into records. Quoted fields and doubled quotes
// are honored; blank lines are skipped and rows may differ in length.
func ParseCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return records, nil
}
