package report

import (
	"context"
	"fmt"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Generator builds weekly and monthly report rows from stored summaries.
// Summaries are fetched for several users at once; rows keep the order
// returned by the user fetcher and any fetch error fails the whole report.
type Generator struct {
	users     report.UserFetcher
	summaries report.SummaryFetcher
	rules     attendance.AttendanceRules
	holidays  attendance.HolidayChecker
	workers   int
}

func NewGenerator(users report.UserFetcher, summaries report.SummaryFetcher, rules attendance.AttendanceRules, holidays attendance.HolidayChecker) *Generator {
	if holidays == nil {
		holidays = attendance.NoHolidays
	}
	return &Generator{
		users:     users,
		summaries: summaries,
		rules:     rules,
		holidays:  holidays,
		workers:   defaultWorkers,
	}
}

// SetWorkers bounds how many summary fetches run at once. n < 1 means one.
func (g *Generator) SetWorkers(n int) {
	g.workers = max(1, n)
}

// GenerateWeeklyReport reports the seven days starting at weekStart, which
// should be a Monday (see GetWeekStart).
func (g *Generator) GenerateWeeklyReport(ctx context.Context, weekStart string, filter *report.Filter) ([]report.WeeklyReportRow, error) {
	dates, err := GetWeekDates(weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrInvalidDate, err)
	}

	users, days, err := g.collect(ctx, filter, dates)
	if err != nil {
		return nil, err
	}

	rows := make([]report.WeeklyReportRow, len(users))
	for i, u := range users {
		rows[i] = report.WeeklyReportRow{
			User:    u,
			Days:    days[i],
			Summary: CalculateWeeklySummary(days[i]),
		}
	}
	return rows, nil
}

// GenerateMonthlyReport reports every date of the calendar month.
func (g *Generator) GenerateMonthlyReport(ctx context.Context, year, month int, filter *report.Filter) ([]report.MonthlyReportRow, error) {
	dates, err := GetMonthDates(year, month)
	if err != nil {
		return nil, err
	}

	users, days, err := g.collect(ctx, filter, dates)
	if err != nil {
		return nil, err
	}

	rows := make([]report.MonthlyReportRow, len(users))
	for i, u := range users {
		rows[i] = report.MonthlyReportRow{
			User:         u,
			DailyDetails: days[i],
			Summary:      CalculateMonthlySummary(days[i]),
		}
	}
	return rows, nil
}

// collect fetches the filtered users and maps each one's summaries onto dates.
// days[i] belongs to users[i].
func (g *Generator) collect(ctx context.Context, filter *report.Filter, dates []string) ([]user.User, [][]report.DayAttendance, error) {
	users, err := g.users(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	users = applyUserIDs(users, filter)

	holidays := make(map[string]bool, len(dates))
	for _, date := range dates {
		holidays[date] = g.holidays.IsHoliday(date)
	}

	start, end := dates[0], dates[len(dates)-1]
	days := make([][]report.DayAttendance, len(users))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, u := range users {
		eg.Go(func() error {
			summaries, err := g.summaries(egCtx, u.ID, start, end)
			if err != nil {
				return fmt.Errorf("failed to fetch summaries for user %s: %w", u.ID, err)
			}

			byDate := make(map[string]*attendance.DailySummary, len(summaries))
			for j := range summaries {
				byDate[summaries[j].Date] = &summaries[j]
			}

			userDays := make([]report.DayAttendance, len(dates))
			for j, date := range dates {
				userDays[j] = SummaryToDayAttendance(byDate[date], date, g.rules, holidays[date])
			}
			days[i] = userDays
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return users, days, nil
}

// applyUserIDs keeps only users named in filter.UserIDs; an empty list keeps everyone.
func applyUserIDs(users []user.User, filter *report.Filter) []user.User {
	if filter == nil || len(filter.UserIDs) == 0 {
		return users
	}
	allowed := make(map[string]struct{}, len(filter.UserIDs))
	for _, id := range filter.UserIDs {
		allowed[id] = struct{}{}
	}
	kept := make([]user.User, 0, len(users))
	for _, u := range users {
		if _, ok := allowed[u.ID]; ok {
			kept = append(kept, u)
		}
	}
	return kept
}
