package attendance

import "context"

type AttendanceService interface {
	// ProcessRange recomputes and stores daily summaries for every active user
	// (or one user) over an inclusive date range.
	ProcessRange(ctx context.Context, req ProcessRequest) (ProcessResult, error)

	// IngestPunches stores normalized punches, skipping duplicates, then
	// reprocesses every date the punches touch.
	IngestPunches(ctx context.Context, req IngestPunchesRequest) (IngestResult, error)

	ListSummaries(ctx context.Context, filter SummaryFilter) ([]DailySummary, error)

	GetRules(ctx context.Context) (AttendanceRules, error)
	UpdateRules(ctx context.Context, rules AttendanceRules) (AttendanceRules, error)

	ListHolidays(ctx context.Context, startDate, endDate string) ([]Holiday, error)
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (Holiday, error)
	DeleteHoliday(ctx context.Context, date string) error
}
