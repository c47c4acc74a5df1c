package report

import (
	"context"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
)

// UserFetcher returns the active users a report covers, in output order. When
// filter.DepartmentID is set the fetcher is expected to apply it.
type UserFetcher func(ctx context.Context, filter *Filter) ([]user.User, error)

// SummaryFetcher returns the stored summaries of one user with startDate <= date <= endDate.
type SummaryFetcher func(ctx context.Context, userID, startDate, endDate string) ([]attendance.DailySummary, error)

// ReportService defines the interface for report generation
type ReportService interface {
	// WeeklyReport covers the Monday-to-Sunday week containing req.WeekStart.
	WeeklyReport(ctx context.Context, req WeeklyReportRequest) (WeeklyReport, error)

	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// ExportWeekly and ExportMonthly render the report as CSV or XLSX according to req.Format.
	ExportWeekly(ctx context.Context, req WeeklyReportRequest) (ExportFile, error)
	ExportMonthly(ctx context.Context, req MonthlyReportRequest) (ExportFile, error)
}
