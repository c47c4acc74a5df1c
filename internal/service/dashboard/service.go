package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/dashboard"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	user.UserRepository
	attendance.SummaryRepository
	now func() time.Time
}

func NewDashboardService(userRepo user.UserRepository, summaryRepo attendance.SummaryRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		UserRepository:    userRepo,
		SummaryRepository: summaryRepo,
		now:               time.Now,
	}
}

// CalculateTodayStats derives the dashboard counters from one date's summaries.
func CalculateTodayStats(summaries []attendance.DailySummary, totalActiveUsers int, date string) dashboard.TodayStats {
	stats := dashboard.TodayStats{
		Date:             date,
		TotalActiveUsers: totalActiveUsers,
	}
	for _, s := range summaries {
		if s.CheckInTime != nil {
			stats.CheckedIn++
		}
		if s.Status == attendance.StatusLate {
			stats.Late++
		}
		if s.IsIncomplete {
			stats.Incomplete++
		}
	}
	stats.NotCheckedIn = max(0, totalActiveUsers-stats.CheckedIn)
	return stats
}

// GetTodayStats loads the day's summaries and the active-user count in parallel.
func (s *DashboardServiceImpl) GetTodayStats(ctx context.Context, date string) (dashboard.TodayStats, error) {
	if date == "" {
		date = clock.FormatDate(s.now())
	} else if _, ok := validator.IsValidDate(date); !ok {
		return dashboard.TodayStats{}, attendance.ErrInvalidDate
	}

	var (
		summaries []attendance.DailySummary
		total     int
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summaries, err = s.SummaryRepository.ListByDate(gCtx, date)
		if err != nil {
			return fmt.Errorf("failed to list summaries: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		total, err = s.UserRepository.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count active users: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.TodayStats{}, err
	}

	return CalculateTodayStats(summaries, total, date), nil
}
