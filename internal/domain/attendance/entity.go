package attendance

import (
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
)

// Status is the classified outcome of one user-day.
type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusIncomplete Status = "incomplete"
	StatusHoliday    Status = "holiday"
	StatusWeekend    Status = "weekend"
)

// IsOffDay reports whether the status is excluded from attendance counts.
func (s Status) IsOffDay() bool {
	return s == StatusHoliday || s == StatusWeekend
}

// IsAttended reports whether the status counts as a present day.
func (s Status) IsAttended() bool {
	return s == StatusPresent || s == StatusLate || s == StatusEarlyLeave
}

const (
	FlagSinglePunchCheckIn  = "single_punch_checkin"
	FlagSinglePunchCheckOut = "single_punch_checkout"
	FlagMultiplePunches     = "multiple_punches"
)

// PunchRecord is one raw scan as ingested from a time-clock device.
type PunchRecord struct {
	ID           string
	DeviceID     string
	DeviceUserID string
	Timestamp    time.Time
	VerifyType   int
	PunchType    int
	CreatedAt    time.Time
}

// DailySummary is the derived attendance of one user on one calendar date.
// CheckInTime and CheckOutTime are "HH:mm" wall-clock times.
type DailySummary struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	IsIncomplete bool      `json:"is_incomplete"`
	LateMinutes  int       `json:"late_minutes"`
	EarlyMinutes int       `json:"early_minutes"`
	Status       Status    `json:"status"`
	Flags        []string  `json:"flags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceRules configures how punches are classified. Times are "HH:mm",
// grace periods are minutes and Workdays holds weekday indices (Sunday = 0).
type AttendanceRules struct {
	WorkStartTime         string `json:"work_start_time"`
	WorkEndTime           string `json:"work_end_time"`
	LateGracePeriod       int    `json:"late_grace_period"`
	EarlyLeaveGracePeriod int    `json:"early_leave_grace_period"`
	CheckInWindowStart    string `json:"check_in_window_start"`
	CheckInWindowEnd      string `json:"check_in_window_end"`
	CheckOutWindowStart   string `json:"check_out_window_start"`
	CheckOutWindowEnd     string `json:"check_out_window_end"`
	Workdays              []int  `json:"workdays"`
}

// DefaultRules returns the rules used until an administrator saves their own.
func DefaultRules() AttendanceRules {
	return AttendanceRules{
		WorkStartTime:         "09:00",
		WorkEndTime:           "18:00",
		LateGracePeriod:       15,
		EarlyLeaveGracePeriod: 15,
		CheckInWindowStart:    "06:00",
		CheckInWindowEnd:      "12:00",
		CheckOutWindowStart:   "12:00",
		CheckOutWindowEnd:     "23:59",
		Workdays:              []int{1, 2, 3, 4, 5},
	}
}

// HasWorkday reports whether weekday is configured as a working day.
func (r AttendanceRules) HasWorkday(weekday time.Weekday) bool {
	for _, d := range r.Workdays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// IsWorkdayDate reports whether the "YYYY-MM-DD" date falls on a workday.
// Malformed dates are never workdays.
func (r AttendanceRules) IsWorkdayDate(date string) bool {
	day, err := clock.ParseDate(date)
	if err != nil {
		return false
	}
	return r.HasWorkday(day.Weekday())
}

// Holiday is a company-wide non-working date.
type Holiday struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HolidayChecker answers whether a "YYYY-MM-DD" date is a holiday.
type HolidayChecker interface {
	IsHoliday(date string) bool
}

// HolidaySet is an in-memory HolidayChecker keyed by date.
type HolidaySet map[string]struct{}

func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return set
}

func (s HolidaySet) IsHoliday(date string) bool {
	_, ok := s[date]
	return ok
}

// HolidayFunc adapts a plain predicate to HolidayChecker.
type HolidayFunc func(date string) bool

func (f HolidayFunc) IsHoliday(date string) bool {
	return f(date)
}

// NoHolidays treats every date as a regular day.
var NoHolidays HolidayChecker = HolidayFunc(func(string) bool { return false })
