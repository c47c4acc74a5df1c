package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
)

const processYesterdayJob = "process_yesterday"

// AttendanceJobs recomputes daily summaries in the background.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	runHour           int
	now               func() time.Time

	mu       sync.Mutex
	lastDate string
}

// NewAttendanceJobs returns jobs that process the previous day during runHour (local time).
func NewAttendanceJobs(attendanceService attendance.AttendanceService, runHour int) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		runHour:           runHour,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(processYesterdayJob, 15*time.Minute, j.ProcessYesterday)
}

// ProcessYesterday reprocesses the previous local date for every active user.
// It does nothing outside runHour and runs at most once per date.
func (j *AttendanceJobs) ProcessYesterday(ctx context.Context) error {
	now := j.now()
	if now.Hour() != j.runHour {
		return nil
	}

	yesterday := clock.FormatDate(now.AddDate(0, 0, -1))

	j.mu.Lock()
	if j.lastDate == yesterday {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	slog.Info("Cron: processing previous day", "date", yesterday)

	result, err := j.attendanceService.ProcessRange(ctx, attendance.ProcessRequest{
		StartDate: yesterday,
		EndDate:   yesterday,
	})
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", yesterday, err)
	}

	j.mu.Lock()
	j.lastDate = yesterday
	j.mu.Unlock()

	slog.Info("Cron: previous day processed",
		"date", yesterday,
		"users", result.UsersProcessed,
		"summaries", result.SummariesWritten,
	)
	return nil
}
