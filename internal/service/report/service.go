package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/metrics"
)

type ReportServiceImpl struct {
	user.UserRepository
	attendance.SummaryRepository
	attendance.HolidayRepository
	attendance.RulesRepository
	workers int
	style   SpreadsheetStyle
	now     func() time.Time
}

func NewReportService(
	userRepo user.UserRepository,
	summaryRepo attendance.SummaryRepository,
	holidayRepo attendance.HolidayRepository,
	rulesRepo attendance.RulesRepository,
	workers int,
	style SpreadsheetStyle,
) report.ReportService {
	return &ReportServiceImpl{
		UserRepository:    userRepo,
		SummaryRepository: summaryRepo,
		HolidayRepository: holidayRepo,
		RulesRepository:   rulesRepo,
		workers:           workers,
		style:             style,
		now:               time.Now,
	}
}

// generator loads the rules and the period's holidays and binds them to the repositories.
func (s *ReportServiceImpl) generator(ctx context.Context, startDate, endDate string) (*Generator, error) {
	rules, err := s.RulesRepository.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrInvalidConfiguration, err)
	}
	holidays, err := s.HolidayRepository.ListBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	users := func(ctx context.Context, filter *report.Filter) ([]user.User, error) {
		var f user.ListFilter
		if filter != nil {
			f = user.ListFilter{DepartmentID: filter.DepartmentID, UserIDs: filter.UserIDs}
		}
		return s.UserRepository.ListActive(ctx, f)
	}

	g := NewGenerator(users, s.SummaryRepository.ListByUserAndRange, rules, attendance.NewHolidaySet(holidays))
	g.SetWorkers(s.workers)
	return g, nil
}

// WeeklyReport implements report.ReportService.
func (s *ReportServiceImpl) WeeklyReport(ctx context.Context, req report.WeeklyReportRequest) (report.WeeklyReport, error) {
	if err := req.Validate(); err != nil {
		return report.WeeklyReport{}, err
	}
	started := s.now()

	weekStart, err := GetWeekStart(req.WeekStart)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("%w: %v", attendance.ErrInvalidDate, err)
	}
	weekEnd, err := clock.AddDays(weekStart, 6)
	if err != nil {
		return report.WeeklyReport{}, err
	}

	g, err := s.generator(ctx, weekStart, weekEnd)
	if err != nil {
		return report.WeeklyReport{}, err
	}
	rows, err := g.GenerateWeeklyReport(ctx, weekStart, req.Filter())
	if err != nil {
		return report.WeeklyReport{}, err
	}

	metrics.ReportDuration.WithLabelValues("weekly").Observe(time.Since(started).Seconds())
	slog.Info("weekly report generated", "week_start", weekStart, "rows", len(rows))

	return report.WeeklyReport{
		WeekStart:   weekStart,
		WeekEnd:     weekEnd,
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}
	started := s.now()

	dates, err := GetMonthDates(req.Year, req.Month)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	periodStart, periodEnd := dates[0], dates[len(dates)-1]

	g, err := s.generator(ctx, periodStart, periodEnd)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	rows, err := g.GenerateMonthlyReport(ctx, req.Year, req.Month, req.Filter())
	if err != nil {
		return report.MonthlyReport{}, err
	}

	metrics.ReportDuration.WithLabelValues("monthly").Observe(time.Since(started).Seconds())
	slog.Info("monthly report generated", "year", req.Year, "month", req.Month, "rows", len(rows))

	return report.MonthlyReport{
		Year:        req.Year,
		Month:       req.Month,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedAt: s.now().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// ExportWeekly implements report.ReportService.
func (s *ReportServiceImpl) ExportWeekly(ctx context.Context, req report.WeeklyReportRequest) (report.ExportFile, error) {
	if req.Format != report.FormatCSV && req.Format != report.FormatXLSX {
		return report.ExportFile{}, fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, req.Format)
	}
	rep, err := s.WeeklyReport(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	var data []byte
	switch req.Format {
	case report.FormatCSV:
		text, err := ExportWeeklyCSV(rep.Rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
		data = []byte(text)
	case report.FormatXLSX:
		data, err = ExportWeeklyXLSX(rep.Rows, s.style)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
	}

	metrics.ReportsGenerated.WithLabelValues("weekly", req.Format).Inc()
	return report.ExportFile{
		Filename:    fmt.Sprintf("attendance_weekly_%s.%s", rep.WeekStart, req.Format),
		ContentType: contentType(req.Format),
		Data:        data,
	}, nil
}

// ExportMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthly(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error) {
	if req.Format != report.FormatCSV && req.Format != report.FormatXLSX {
		return report.ExportFile{}, fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, req.Format)
	}
	rep, err := s.MonthlyReport(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	var data []byte
	switch req.Format {
	case report.FormatCSV:
		text, err := ExportMonthlyCSV(rep.Rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
		data = []byte(text)
	case report.FormatXLSX:
		data, err = ExportMonthlyXLSX(rep.Rows, s.style)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
		}
	}

	metrics.ReportsGenerated.WithLabelValues("monthly", req.Format).Inc()
	return report.ExportFile{
		Filename:    fmt.Sprintf("attendance_monthly_%04d-%02d.%s", rep.Year, rep.Month, req.Format),
		ContentType: contentType(req.Format),
		Data:        data,
	}, nil
}

func contentType(format string) string {
	if format == report.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
