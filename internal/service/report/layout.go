package report

import (
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
)

// Column layout shared by the CSV and spreadsheet exports. Day columns come in
// In/Out pairs starting at the 1-based column returned by the *DayColumn consts.
const (
	weeklyDayColumn  = 3
	monthlyDayColumn = 4
)

var (
	weeklyTotalsHeader  = []string{"Days Present", "Days Absent", "Late Minutes", "Early Minutes", "Incomplete Days"}
	monthlyTotalsHeader = []string{"Days Present", "Days Absent", "Working Days", "Attendance %", "Late Minutes", "Early Minutes", "Incomplete Days"}
)

func weeklyHeader(rows []report.WeeklyReportRow) []string {
	header := []string{"Name", "Employee Code"}
	if len(rows) > 0 {
		for _, d := range rows[0].Days {
			header = append(header, d.DayOfWeek+" In", d.DayOfWeek+" Out")
		}
	}
	return append(header, weeklyTotalsHeader...)
}

func weeklyValues(row report.WeeklyReportRow) []any {
	values := []any{row.User.DisplayName, deref(row.User.EmployeeCode)}
	values = appendDayCells(values, row.Days)
	s := row.Summary
	return append(values, s.DaysPresent, s.DaysAbsent, s.TotalLateMinutes, s.TotalEarlyMinutes, s.IncompleteDays)
}

func monthlyHeader(rows []report.MonthlyReportRow) []string {
	header := []string{"Name", "Employee Code", "Department"}
	if len(rows) > 0 {
		for _, d := range rows[0].DailyDetails {
			header = append(header, d.Date+" In", d.Date+" Out")
		}
	}
	return append(header, monthlyTotalsHeader...)
}

func monthlyValues(row report.MonthlyReportRow) []any {
	values := []any{row.User.DisplayName, deref(row.User.EmployeeCode), deref(row.User.DepartmentName)}
	values = appendDayCells(values, row.DailyDetails)
	s := row.Summary
	return append(values,
		s.DaysPresent, s.DaysAbsent, s.TotalWorkingDays, s.AttendancePercentage,
		s.TotalLateMinutes, s.TotalEarlyMinutes, s.IncompleteDays,
	)
}

// appendDayCells renders each day as an In/Out pair. Weekends and holidays show
// their label in the In column and leave Out empty.
func appendDayCells(values []any, days []report.DayAttendance) []any {
	for _, d := range days {
		switch d.Status {
		case attendance.StatusWeekend:
			values = append(values, "Weekend", "")
		case attendance.StatusHoliday:
			values = append(values, "Holiday", "")
		default:
			values = append(values, deref(d.CheckInTime), deref(d.CheckOutTime))
		}
	}
	return values
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
