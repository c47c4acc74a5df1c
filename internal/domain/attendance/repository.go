package attendance

import (
	"context"
	"time"
)

// PunchRepository reads raw punches written by the device ingestion sidecar.
type PunchRepository interface {
	// ListByDeviceUsers returns punches of the given device users with from <= timestamp < to, oldest first.
	ListByDeviceUsers(ctx context.Context, deviceUserIDs []string, from, to time.Time) ([]PunchRecord, error)

	// BulkInsert stores punches, ignoring ones already present for (device, device user, timestamp).
	BulkInsert(ctx context.Context, punches []PunchRecord) (int64, error)
}

// SummaryRepository persists one DailySummary per (user, date).
type SummaryRepository interface {
	// Upsert creates or overwrites the summary for summary.UserID on summary.Date.
	Upsert(ctx context.Context, summary DailySummary) (DailySummary, error)

	// ListByUserAndRange returns summaries with start <= date <= end ordered by date.
	ListByUserAndRange(ctx context.Context, userID, startDate, endDate string) ([]DailySummary, error)

	// ListByDate returns every user's summary for one date.
	ListByDate(ctx context.Context, date string) ([]DailySummary, error)
}

type HolidayRepository interface {
	ListBetween(ctx context.Context, startDate, endDate string) ([]Holiday, error)
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	Delete(ctx context.Context, date string) error
}

// RulesRepository loads and stores the installation-wide AttendanceRules.
type RulesRepository interface {
	// GetRules returns DefaultRules when nothing has been saved yet.
	GetRules(ctx context.Context) (AttendanceRules, error)
	SaveRules(ctx context.Context, rules AttendanceRules) error
}
