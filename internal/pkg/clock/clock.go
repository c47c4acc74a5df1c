package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// NoonMinutes splits punches into check-in (before) and check-out (at or after) candidates.
	NoonMinutes = 12 * 60
)

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// IsValidClock reports whether s is a 24h "HH:mm" wall-clock time.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// ParseTimeToMinutes converts "HH:mm" into minutes since midnight.
func ParseTimeToMinutes(hhmm string) (int, error) {
	m := clockRegex.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:mm", hhmm)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// FormatMinutes is the inverse of ParseTimeToMinutes for values in [0, 1440).
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsTimeInWindow reports whether start <= t <= end, compared as minute offsets.
// Windows that wrap past midnight (start > end) are not supported and never match
// a time that lies between end and start. Malformed operands never match.
func IsTimeInWindow(t, start, end string) bool {
	tm, err := ParseTimeToMinutes(t)
	if err != nil {
		return false
	}
	sm, err := ParseTimeToMinutes(start)
	if err != nil {
		return false
	}
	em, err := ParseTimeToMinutes(end)
	if err != nil {
		return false
	}
	return tm >= sm && tm <= em
}

// ExtractTimeFromTimestamp returns the host-local wall-clock "HH:mm" of ts.
func ExtractTimeFromTimestamp(ts time.Time) string {
	return ts.Local().Format(ClockLayout)
}

// ExtractDateFromTimestamp returns the host-local calendar date "YYYY-MM-DD" of ts.
func ExtractDateFromTimestamp(ts time.Time) string {
	return ts.Local().Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" calendar date. The result is midnight UTC so that
// date arithmetic never crosses a DST boundary.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// FormatDate formats t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a "YYYY-MM-DD" date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DatesBetween returns every calendar date from start to end inclusive.
// An empty slice is returned when end is before start.
func DatesBetween(start, end string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates, nil
}

// LocalRange returns the host-local instants bounding the dates start..end:
// midnight of start and midnight of the day after end.
func LocalRange(start, end string) (from, to time.Time, err error) {
	from, err = time.ParseInLocation(DateLayout, start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := time.ParseInLocation(DateLayout, end, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, last.AddDate(0, 0, 1), nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp reads an RFC 3339 timestamp. Timestamps without an offset
// are taken as host-local wall time, the way devices report them.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
