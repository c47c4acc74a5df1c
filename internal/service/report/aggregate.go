package report

import (
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

// SummaryToDayAttendance projects summary onto date. A nil summary becomes a
// placeholder: holiday, weekend when date is not a workday, absent otherwise.
func SummaryToDayAttendance(summary *attendance.DailySummary, date string, rules attendance.AttendanceRules, isHoliday bool) report.DayAttendance {
	day := report.DayAttendance{Date: date}
	if d, err := clock.ParseDate(date); err == nil {
		day.DayOfWeek = d.Weekday().String()
	}

	if summary == nil {
		switch {
		case isHoliday:
			day.Status = attendance.StatusHoliday
		case !rules.IsWorkdayDate(date):
			day.Status = attendance.StatusWeekend
		default:
			day.Status = attendance.StatusAbsent
		}
		return day
	}

	day.CheckInTime = summary.CheckInTime
	day.CheckOutTime = summary.CheckOutTime
	day.Status = summary.Status
	day.LateMinutes = summary.LateMinutes
	day.EarlyMinutes = summary.EarlyMinutes
	day.IsIncomplete = summary.IsIncomplete
	return day
}

// dayCounts holds the counters shared by the weekly and monthly summaries.
type dayCounts struct {
	present    int
	absent     int
	late       int
	early      int
	incomplete int
	working    int
}

func countDays(days []report.DayAttendance) dayCounts {
	var c dayCounts
	for _, d := range days {
		if d.Status.IsOffDay() {
			continue
		}
		c.working++
		if d.Status.IsAttended() {
			c.present++
		}
		if d.Status == attendance.StatusAbsent {
			c.absent++
		}
		if d.IsIncomplete {
			c.incomplete++
		}
		c.late += d.LateMinutes
		c.early += d.EarlyMinutes
	}
	return c
}

// CalculateWeeklySummary totals days, skipping weekends and holidays.
func CalculateWeeklySummary(days []report.DayAttendance) report.WeeklySummary {
	c := countDays(days)
	return report.WeeklySummary{
		DaysPresent:       c.present,
		DaysAbsent:        c.absent,
		TotalLateMinutes:  c.late,
		TotalEarlyMinutes: c.early,
		IncompleteDays:    c.incomplete,
	}
}

// CalculateMonthlySummary totals days like CalculateWeeklySummary and adds the
// working-day count and the rounded attendance percentage.
func CalculateMonthlySummary(days []report.DayAttendance) report.MonthlySummary {
	c := countDays(days)
	return report.MonthlySummary{
		DaysPresent:          c.present,
		DaysAbsent:           c.absent,
		TotalLateMinutes:     c.late,
		TotalEarlyMinutes:    c.early,
		IncompleteDays:       c.incomplete,
		TotalWorkingDays:     c.working,
		AttendancePercentage: AttendancePercentage(c.present, c.working),
	}
}

// AttendancePercentage is present/working*100 rounded half up, or 0 without working days.
func AttendancePercentage(present, working int) int {
	if working == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(present)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(working))).
		Round(0)
	return int(pct.IntPart())
}
