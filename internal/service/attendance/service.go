package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/metrics"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"github.com/horus-attendance/horus-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	tx postgresql.Transactor
	user.UserRepository
	attendance.PunchRepository
	attendance.SummaryRepository
	attendance.HolidayRepository
	attendance.RulesRepository
}

// ProcessRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ProcessRange(ctx context.Context, req attendance.ProcessRequest) (attendance.ProcessResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.ProcessResult{}, err
	}
	started := time.Now()

	rules, err := s.RulesRepository.GetRules(ctx)
	if err != nil {
		return attendance.ProcessResult{}, fmt.Errorf("failed to load attendance rules: %w", err)
	}
	holidays, err := s.HolidayRepository.ListBetween(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return attendance.ProcessResult{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	engine, err := NewEngine(rules, attendance.NewHolidaySet(holidays))
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	users, err := s.usersToProcess(ctx, req.UserID)
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	dates, err := clock.DatesBetween(req.StartDate, req.EndDate)
	if err != nil {
		return attendance.ProcessResult{}, fmt.Errorf("%w: %v", attendance.ErrInvalidDate, err)
	}

	byDeviceUser, punchCount, err := s.loadPunches(ctx, users, req.StartDate, req.EndDate)
	if err != nil {
		return attendance.ProcessResult{}, err
	}

	result := attendance.ProcessResult{
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		UsersProcessed: len(users),
		PunchesRead:    punchCount,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, u := range users {
			var perDate map[string][]attendance.PunchRecord
			if u.DeviceUserID != nil {
				perDate = byDeviceUser[*u.DeviceUserID]
			}
			for _, date := range dates {
				summary, err := engine.ProcessDay(u.ID, date, perDate[date])
				if err != nil {
					return err
				}
				if _, err := s.SummaryRepository.Upsert(txCtx, summary); err != nil {
					return fmt.Errorf("failed to save summary for user %s on %s: %w", u.ID, date, err)
				}
				result.SummariesWritten++
			}
		}
		return nil
	})
	if err != nil {
		return attendance.ProcessResult{}, err
	}
	metrics.SummariesWritten.Add(float64(result.SummariesWritten))

	slog.Info("attendance processed",
		"start_date", result.StartDate,
		"end_date", result.EndDate,
		"users", result.UsersProcessed,
		"punches", result.PunchesRead,
		"summaries", result.SummariesWritten,
		"duration", time.Since(started),
	)
	return result, nil
}

func (s *AttendanceServiceImpl) usersToProcess(ctx context.Context, userID *string) ([]user.User, error) {
	if userID != nil {
		u, err := s.UserRepository.GetByID(ctx, *userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if !u.IsActive() {
			return nil, user.ErrUserNotFound
		}
		return []user.User{u}, nil
	}

	users, err := s.UserRepository.ListActive(ctx, user.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

// loadPunches fetches the range's punches and groups them by device user id and local date.
func (s *AttendanceServiceImpl) loadPunches(ctx context.Context, users []user.User, startDate, endDate string) (map[string]map[string][]attendance.PunchRecord, int, error) {
	deviceUserIDs := make([]string, 0, len(users))
	for _, u := range users {
		if u.DeviceUserID != nil && !validator.IsEmpty(*u.DeviceUserID) {
			deviceUserIDs = append(deviceUserIDs, *u.DeviceUserID)
		}
	}
	grouped := make(map[string]map[string][]attendance.PunchRecord, len(deviceUserIDs))
	if len(deviceUserIDs) == 0 {
		return grouped, 0, nil
	}

	from, to, err := clock.LocalRange(startDate, endDate)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", attendance.ErrInvalidDate, err)
	}
	punches, err := s.PunchRepository.ListByDeviceUsers(ctx, deviceUserIDs, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punches: %w", err)
	}

	for _, p := range punches {
		date := clock.ExtractDateFromTimestamp(p.Timestamp)
		if grouped[p.DeviceUserID] == nil {
			grouped[p.DeviceUserID] = make(map[string][]attendance.PunchRecord)
		}
		grouped[p.DeviceUserID][date] = append(grouped[p.DeviceUserID][date], p)
	}
	return grouped, len(punches), nil
}

// IngestPunches implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) IngestPunches(ctx context.Context, req attendance.IngestPunchesRequest) (attendance.IngestResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.IngestResult{}, err
	}
	records := req.Records()

	var inserted int64
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.PunchRepository.BulkInsert(txCtx, records)
		if err != nil {
			return fmt.Errorf("failed to insert punches: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return attendance.IngestResult{}, err
	}

	result := attendance.IngestResult{
		Received:   len(records),
		Inserted:   inserted,
		Duplicates: int64(len(records)) - inserted,
	}
	slog.Info("punches ingested",
		"received", result.Received,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
	)
	if inserted == 0 {
		return result, nil
	}

	startDate, endDate := punchDateRange(records)
	processed, err := s.ProcessRange(ctx, attendance.ProcessRequest{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return result, fmt.Errorf("punches stored but processing failed: %w", err)
	}
	result.Processed = &processed
	return result, nil
}

// punchDateRange returns the first and last local dates touched by punches.
func punchDateRange(punches []attendance.PunchRecord) (start, end string) {
	for _, p := range punches {
		date := clock.ExtractDateFromTimestamp(p.Timestamp)
		if start == "" || date < start {
			start = date
		}
		if end == "" || date > end {
			end = date
		}
	}
	return start, end
}

// ListSummaries implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListSummaries(ctx context.Context, filter attendance.SummaryFilter) ([]attendance.DailySummary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	summaries, err := s.SummaryRepository.ListByUserAndRange(ctx, filter.UserID, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	return summaries, nil
}

// GetRules implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRules(ctx context.Context) (attendance.AttendanceRules, error) {
	rules, err := s.RulesRepository.GetRules(ctx)
	if err != nil {
		return attendance.AttendanceRules{}, fmt.Errorf("failed to load attendance rules: %w", err)
	}
	return rules, nil
}

// UpdateRules implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateRules(ctx context.Context, rules attendance.AttendanceRules) (attendance.AttendanceRules, error) {
	if err := rules.Validate(); err != nil {
		return attendance.AttendanceRules{}, err
	}
	if rules.Workdays == nil {
		rules.Workdays = []int{}
	}
	if err := s.RulesRepository.SaveRules(ctx, rules); err != nil {
		return attendance.AttendanceRules{}, fmt.Errorf("failed to save attendance rules: %w", err)
	}
	slog.Info("attendance rules updated",
		"work_start_time", rules.WorkStartTime,
		"work_end_time", rules.WorkEndTime,
		"workdays", rules.Workdays,
	)
	return rules, nil
}

// ListHolidays implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListHolidays(ctx context.Context, startDate, endDate string) ([]attendance.Holiday, error) {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(startDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if _, ok := validator.IsValidDate(endDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	holidays, err := s.HolidayRepository.ListBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

// CreateHoliday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateHoliday(ctx context.Context, req attendance.CreateHolidayRequest) (attendance.Holiday, error) {
	if err := req.Validate(); err != nil {
		return attendance.Holiday{}, err
	}
	created, err := s.HolidayRepository.Create(ctx, attendance.Holiday{Date: req.Date, Name: req.Name})
	if err != nil {
		if errors.Is(err, attendance.ErrHolidayExists) {
			return attendance.Holiday{}, err
		}
		return attendance.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// DeleteHoliday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteHoliday(ctx context.Context, date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return attendance.ErrInvalidDate
	}
	if err := s.HolidayRepository.Delete(ctx, date); err != nil {
		if errors.Is(err, attendance.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func NewAttendanceService(
	tx postgresql.Transactor,
	userRepo user.UserRepository,
	punchRepo attendance.PunchRepository,
	summaryRepo attendance.SummaryRepository,
	holidayRepo attendance.HolidayRepository,
	rulesRepo attendance.RulesRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                tx,
		UserRepository:    userRepo,
		PunchRepository:   punchRepo,
		SummaryRepository: summaryRepo,
		HolidayRepository: holidayRepo,
		RulesRepository:   rulesRepo,
	}
}
