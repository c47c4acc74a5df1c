package report

import (
	"fmt"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
)

// GetWeekStart returns the Monday of the ISO week containing date.
func GetWeekStart(date string) (string, error) {
	d, err := clock.ParseDate(date)
	if err != nil {
		return "", err
	}
	offset := int(d.Weekday()) - int(time.Monday)
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return clock.FormatDate(d.AddDate(0, 0, -offset)), nil
}

// GetWeekDates returns the seven consecutive dates starting at monday.
func GetWeekDates(monday string) ([]string, error) {
	start, err := clock.ParseDate(monday)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = clock.FormatDate(start.AddDate(0, 0, i))
	}
	return dates, nil
}

// GetMonthDates returns every calendar date of month (1-12) in year.
func GetMonthDates(year, month int) ([]string, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d", report.ErrInvalidMonth, month)
	}
	if year < 1 {
		return nil, fmt.Errorf("%w: %d", report.ErrInvalidYear, year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	dates := make([]string, days)
	for i := range dates {
		dates[i] = clock.FormatDate(first.AddDate(0, 0, i))
	}
	return dates, nil
}
