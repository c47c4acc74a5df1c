package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidConfiguration = errors.New("invalid attendance rules configuration")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	ErrHolidayExists        = errors.New("a holiday already exists on this date")
	ErrHolidayNotFound      = errors.New("holiday not found")
	ErrUnknownPunchFormat   = errors.New("punch file format must be json or csv")
	ErrMalformedPunchFile   = errors.New("punch file could not be parsed")
)
