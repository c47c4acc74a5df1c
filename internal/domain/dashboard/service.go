package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetTodayStats returns the snapshot for date (YYYY-MM-DD); an empty date means today.
	GetTodayStats(ctx context.Context, date string) (TodayStats, error)
}
