package report

import (
	"fmt"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetStyle configures the cell fills of exported workbooks. A check-in
// cell is colored by its late minutes and a check-out cell by its early
// minutes: up to OnTimeThreshold is on time, up to LateThreshold is a warning,
// anything above is late.
type SpreadsheetStyle struct {
	OnTimeThreshold int
	LateThreshold   int

	HeaderFill   string
	HeaderFont   string
	OnTimeFill   string
	WarningFill  string
	LateFill     string
	AbsentFill   string
	OffDayFill   string
	NameColWidth float64
	DayColWidth  float64
}

func DefaultSpreadsheetStyle() SpreadsheetStyle {
	return SpreadsheetStyle{
		OnTimeThreshold: 0,
		LateThreshold:   30,
		HeaderFill:      "#1F2937",
		HeaderFont:      "#FFFFFF",
		OnTimeFill:      "#C6EFCE",
		WarningFill:     "#FFEB9C",
		LateFill:        "#FFC7CE",
		AbsentFill:      "#F8CBAD",
		OffDayFill:      "#D9D9D9",
		NameColWidth:    28,
		DayColWidth:     11,
	}
}

type cellKind int

const (
	cellNone cellKind = iota
	cellOnTime
	cellWarning
	cellLate
	cellAbsent
	cellOffDay
)

func (s SpreadsheetStyle) classify(minutes int) cellKind {
	switch {
	case minutes <= s.OnTimeThreshold:
		return cellOnTime
	case minutes <= s.LateThreshold:
		return cellWarning
	default:
		return cellLate
	}
}

// dayKinds returns the fill of the In and Out cells of d.
func (s SpreadsheetStyle) dayKinds(d report.DayAttendance) (in, out cellKind) {
	switch {
	case d.Status.IsOffDay():
		return cellOffDay, cellOffDay
	case d.Status == attendance.StatusAbsent:
		return cellAbsent, cellAbsent
	}
	if d.CheckInTime != nil {
		in = s.classify(d.LateMinutes)
	}
	if d.CheckOutTime != nil {
		out = s.classify(d.EarlyMinutes)
	}
	return in, out
}

// ExportWeeklyXLSX renders rows as a single-sheet workbook.
func ExportWeeklyXLSX(rows []report.WeeklyReportRow, style SpreadsheetStyle) ([]byte, error) {
	values := make([][]any, len(rows))
	days := make([][]report.DayAttendance, len(rows))
	for i, row := range rows {
		values[i] = weeklyValues(row)
		days[i] = row.Days
	}
	return writeWorkbook("Weekly Report", weeklyHeader(rows), values, days, weeklyDayColumn, style)
}

// ExportMonthlyXLSX renders rows as a single-sheet workbook.
func ExportMonthlyXLSX(rows []report.MonthlyReportRow, style SpreadsheetStyle) ([]byte, error) {
	values := make([][]any, len(rows))
	days := make([][]report.DayAttendance, len(rows))
	for i, row := range rows {
		values[i] = monthlyValues(row)
		days[i] = row.DailyDetails
	}
	return writeWorkbook("Monthly Report", monthlyHeader(rows), values, days, monthlyDayColumn, style)
}

func writeWorkbook(sheet string, header []string, values [][]any, days [][]report.DayAttendance, dayColumn int, style SpreadsheetStyle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, rowValues := range values {
		for c, v := range rowValues {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	styles, err := newStyles(f, style)
	if err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", styles.header)
	_ = f.SetColWidth(sheet, "A", "A", style.NameColWidth)
	_ = f.SetColWidth(sheet, "B", "B", 16)
	if len(values) > 0 && len(days[0]) > 0 {
		first, _ := excelize.ColumnNumberToName(dayColumn)
		last, _ := excelize.ColumnNumberToName(dayColumn + 2*len(days[0]) - 1)
		_ = f.SetColWidth(sheet, first, last, style.DayColWidth)
	}

	for r, rowDays := range days {
		for i, d := range rowDays {
			in, out := style.dayKinds(d)
			inCell, _ := excelize.CoordinatesToCellName(dayColumn+2*i, r+2)
			outCell, _ := excelize.CoordinatesToCellName(dayColumn+2*i+1, r+2)
			if id, ok := styles.fills[in]; ok {
				_ = f.SetCellStyle(sheet, inCell, inCell, id)
			}
			if id, ok := styles.fills[out]; ok {
				_ = f.SetCellStyle(sheet, outCell, outCell, id)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	header int
	fills  map[cellKind]int
}

func newStyles(f *excelize.File, style SpreadsheetStyle) (workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: style.HeaderFont},
		Fill: excelize.Fill{Type: "pattern", Color: []string{style.HeaderFill}, Pattern: 1},
	})
	if err != nil {
		return workbookStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	colors := map[cellKind]string{
		cellOnTime:  style.OnTimeFill,
		cellWarning: style.WarningFill,
		cellLate:    style.LateFill,
		cellAbsent:  style.AbsentFill,
		cellOffDay:  style.OffDayFill,
	}
	fills := make(map[cellKind]int, len(colors))
	for kind, color := range colors {
		if color == "" {
			continue
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return workbookStyles{}, fmt.Errorf("failed to create cell style: %w", err)
		}
		fills[kind] = id
	}
	return workbookStyles{header: header, fills: fills}, nil
}
