package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE RULES
// ========================================

// Validate checks every clock field and grace period. An empty Workdays list is
// accepted: every date is then classified as a weekend.
func (r AttendanceRules) Validate() error {
	var errs validator.ValidationErrors

	clocks := []struct {
		field string
		value string
	}{
		{"work_start_time", r.WorkStartTime},
		{"work_end_time", r.WorkEndTime},
		{"check_in_window_start", r.CheckInWindowStart},
		{"check_in_window_end", r.CheckInWindowEnd},
		{"check_out_window_start", r.CheckOutWindowStart},
		{"check_out_window_end", r.CheckOutWindowEnd},
	}
	for _, c := range clocks {
		if !validator.IsValidClock(c.value) {
			errs = append(errs, validator.ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("%s must be in HH:mm format", c.field),
			})
		}
	}

	if r.LateGracePeriod < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_grace_period",
			Message: "late_grace_period must not be negative",
		})
	}
	if r.EarlyLeaveGracePeriod < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "early_leave_grace_period",
			Message: "early_leave_grace_period must not be negative",
		})
	}

	for _, d := range r.Workdays {
		if d < 0 || d > 6 {
			errs = append(errs, validator.ValidationError{
				Field:   "workdays",
				Message: "workdays must contain weekday indices between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// PROCESSING
// ========================================

type ProcessRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UserID    *string `json:"user_id,omitempty"`
}

func (r *ProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if end.Sub(start).Hours()/24 > maxProcessDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("range must not exceed %d days", maxProcessDays),
			})
		}
	}
	if r.UserID != nil && validator.IsEmpty(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

const maxProcessDays = 366

type ProcessResult struct {
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	UsersProcessed   int    `json:"users_processed"`
	PunchesRead      int    `json:"punches_read"`
	SummariesWritten int    `json:"summaries_written"`
}

// ========================================
// PUNCH INGESTION
// ========================================

const maxIngestPunches = 50000

// PunchInput is one normalized device punch. Timestamp is RFC 3339 or a
// host-local "YYYY-MM-DD HH:mm:ss".
type PunchInput struct {
	DeviceID     string `json:"device_id"`
	DeviceUserID string `json:"device_user_id"`
	Timestamp    string `json:"timestamp"`
	VerifyType   int    `json:"verify_type"`
	PunchType    int    `json:"punch_type"`
}

type IngestPunchesRequest struct {
	Punches []PunchInput `json:"punches"`
}

func (r *IngestPunchesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Punches) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: "at least one punch is required",
		})
	} else if len(r.Punches) > maxIngestPunches {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: fmt.Sprintf("at most %d punches can be imported at once", maxIngestPunches),
		})
	}

	var first, last time.Time
	for i, p := range r.Punches {
		prefix := fmt.Sprintf("punches[%d]", i)
		if validator.IsEmpty(p.DeviceID) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".device_id",
				Message: "device_id is required",
			})
		}
		if validator.IsEmpty(p.DeviceUserID) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".device_user_id",
				Message: "device_user_id is required",
			})
		}
		ts, err := clock.ParseTimestamp(strings.TrimSpace(p.Timestamp))
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".timestamp",
				Message: "timestamp must be RFC 3339 or YYYY-MM-DD HH:mm:ss",
			})
			continue
		}
		if first.IsZero() || ts.Before(first) {
			first = ts
		}
		if last.IsZero() || ts.After(last) {
			last = ts
		}
	}

	if len(errs) == 0 && last.Sub(first).Hours()/24 > maxProcessDays {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: fmt.Sprintf("punches must span at most %d days", maxProcessDays),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Records converts validated inputs into punch records. Inputs that fail to
// parse are skipped, so call Validate first.
func (r *IngestPunchesRequest) Records() []PunchRecord {
	records := make([]PunchRecord, 0, len(r.Punches))
	for _, p := range r.Punches {
		ts, err := clock.ParseTimestamp(strings.TrimSpace(p.Timestamp))
		if err != nil {
			continue
		}
		records = append(records, PunchRecord{
			DeviceID:     strings.TrimSpace(p.DeviceID),
			DeviceUserID: strings.TrimSpace(p.DeviceUserID),
			Timestamp:    ts,
			VerifyType:   p.VerifyType,
			PunchType:    p.PunchType,
		})
	}
	return records
}

type IngestResult struct {
	Received   int            `json:"received"`
	Inserted   int64          `json:"inserted"`
	Duplicates int64          `json:"duplicates"`
	Processed  *ProcessResult `json:"processed,omitempty"`
}

// ========================================
// SUMMARY LISTING
// ========================================

type SummaryFilter struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// HOLIDAYS
// ========================================

type CreateHolidayRequest struct {
	Date string  `json:"date"`
	Name *string `json:"name,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
