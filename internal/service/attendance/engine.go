package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/clock"
)

// compiledRules holds AttendanceRules converted to minute offsets.
type compiledRules struct {
	workStart     int
	workEnd       int
	lateGrace     int
	earlyGrace    int
	checkInStart  int
	checkInEnd    int
	checkOutStart int
	checkOutEnd   int
	raw           attendance.AttendanceRules
}

func compileRules(rules attendance.AttendanceRules) (compiledRules, error) {
	if err := rules.Validate(); err != nil {
		return compiledRules{}, fmt.Errorf("%w: %w", attendance.ErrInvalidConfiguration, err)
	}

	// Validate guarantees every clock field parses.
	m := func(s string) int {
		v, _ := clock.ParseTimeToMinutes(s)
		return v
	}
	return compiledRules{
		workStart:     m(rules.WorkStartTime),
		workEnd:       m(rules.WorkEndTime),
		lateGrace:     rules.LateGracePeriod,
		earlyGrace:    rules.EarlyLeaveGracePeriod,
		checkInStart:  m(rules.CheckInWindowStart),
		checkInEnd:    m(rules.CheckInWindowEnd),
		checkOutStart: m(rules.CheckOutWindowStart),
		checkOutEnd:   m(rules.CheckOutWindowEnd),
		raw:           rules,
	}, nil
}

type localPunch struct {
	at      time.Time
	clock   string
	minutes int
}

// acceptedPunches drops punches outside their window. A punch before noon is a
// check-in candidate and must fall in the check-in window; any other punch is a
// check-out candidate and must fall in the check-out window. The noon split is
// fixed and ignores where the configured windows actually meet.
func (c compiledRules) acceptedPunches(punches []attendance.PunchRecord) []localPunch {
	accepted := make([]localPunch, 0, len(punches))
	for _, p := range punches {
		hhmm := clock.ExtractTimeFromTimestamp(p.Timestamp)
		minutes, err := clock.ParseTimeToMinutes(hhmm)
		if err != nil {
			continue
		}

		var inWindow bool
		if minutes < clock.NoonMinutes {
			inWindow = minutes >= c.checkInStart && minutes <= c.checkInEnd
		} else {
			inWindow = minutes >= c.checkOutStart && minutes <= c.checkOutEnd
		}
		if !inWindow {
			continue
		}

		accepted = append(accepted, localPunch{at: p.Timestamp, clock: hhmm, minutes: minutes})
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].at.Before(accepted[j].at)
	})
	return accepted
}

func (c compiledRules) lateMinutes(checkIn int) int {
	return max(0, checkIn-(c.workStart+c.lateGrace))
}

func (c compiledRules) earlyMinutes(checkOut int) int {
	return max(0, (c.workEnd-c.earlyGrace)-checkOut)
}

// ProcessDay classifies one user's punches for one calendar date. punches must
// already be limited to that date; they need not be sorted.
func ProcessDay(userID, date string, punches []attendance.PunchRecord, rules attendance.AttendanceRules, isHoliday bool) (attendance.DailySummary, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return attendance.DailySummary{}, err
	}
	return compiled.processDay(userID, date, punches, isHoliday)
}

func (c compiledRules) processDay(userID, date string, punches []attendance.PunchRecord, isHoliday bool) (attendance.DailySummary, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("%w: %q", attendance.ErrInvalidDate, date)
	}

	summary := attendance.DailySummary{
		UserID: userID,
		Date:   date,
		Flags:  []string{},
	}

	accepted := c.acceptedPunches(punches)
	switch len(accepted) {
	case 0:
		// no usable punch: absent unless the calendar says otherwise
	case 1:
		only := accepted[0]
		summary.IsIncomplete = true
		if only.minutes < clock.NoonMinutes {
			summary.CheckInTime = &only.clock
			summary.LateMinutes = c.lateMinutes(only.minutes)
			summary.Flags = append(summary.Flags, attendance.FlagSinglePunchCheckIn)
		} else {
			summary.CheckOutTime = &only.clock
			summary.EarlyMinutes = c.earlyMinutes(only.minutes)
			summary.Flags = append(summary.Flags, attendance.FlagSinglePunchCheckOut)
		}
	default:
		first, last := accepted[0], accepted[len(accepted)-1]
		summary.CheckInTime = &first.clock
		summary.CheckOutTime = &last.clock
		summary.LateMinutes = c.lateMinutes(first.minutes)
		summary.EarlyMinutes = c.earlyMinutes(last.minutes)
		if len(accepted) > 2 {
			summary.Flags = append(summary.Flags, attendance.FlagMultiplePunches)
		}
	}

	summary.Status = deriveStatus(summary, c.raw.HasWorkday(day.Weekday()), isHoliday)
	return summary, nil
}

// deriveStatus applies the status priority: holiday, weekend, absent,
// incomplete, late, early leave, present.
func deriveStatus(s attendance.DailySummary, workday, isHoliday bool) attendance.Status {
	switch {
	case isHoliday:
		return attendance.StatusHoliday
	case !workday:
		return attendance.StatusWeekend
	case s.CheckInTime == nil && s.CheckOutTime == nil:
		return attendance.StatusAbsent
	case s.IsIncomplete:
		return attendance.StatusIncomplete
	case s.LateMinutes > 0:
		return attendance.StatusLate
	case s.EarlyMinutes > 0:
		return attendance.StatusEarlyLeave
	default:
		return attendance.StatusPresent
	}
}

// IsWorkday reports whether date falls on one of rules.Workdays. Malformed dates are never workdays.
func IsWorkday(date string, rules attendance.AttendanceRules) bool {
	return rules.IsWorkdayDate(date)
}

// Engine keeps the current rules and holiday calendar for repeated ProcessDay
// calls. It performs no locking: callers must not change rules or holidays
// while a ProcessDay call is in flight.
type Engine struct {
	rules    compiledRules
	holidays attendance.HolidayChecker
}

func NewEngine(rules attendance.AttendanceRules, holidays attendance.HolidayChecker) (*Engine, error) {
	e := &Engine{}
	if err := e.SetRules(rules); err != nil {
		return nil, err
	}
	e.SetHolidayChecker(holidays)
	return e, nil
}

// Rules returns a copy of the active rules.
func (e *Engine) Rules() attendance.AttendanceRules {
	r := e.rules.raw
	r.Workdays = append([]int(nil), r.Workdays...)
	return r
}

// SetRules validates and installs new rules. On error the previous rules stay active.
func (e *Engine) SetRules(rules attendance.AttendanceRules) error {
	rules.Workdays = append([]int(nil), rules.Workdays...)
	compiled, err := compileRules(rules)
	if err != nil {
		return err
	}
	e.rules = compiled
	return nil
}

// SetHolidayChecker replaces the holiday calendar; nil means no holidays.
func (e *Engine) SetHolidayChecker(holidays attendance.HolidayChecker) {
	if holidays == nil {
		holidays = attendance.NoHolidays
	}
	e.holidays = holidays
}

func (e *Engine) ProcessDay(userID, date string, punches []attendance.PunchRecord) (attendance.DailySummary, error) {
	return e.rules.processDay(userID, date, punches, e.holidays.IsHoliday(date))
}

func (e *Engine) IsWorkday(date string) bool {
	return IsWorkday(date, e.rules.raw)
}
