package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Malformed request bodies
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		BadRequest(w, "Invalid request body", nil)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		BadRequest(w, "Request body too large", nil)
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrDeviceUserIDExists):
		Conflict(w, "Device user id is already assigned to another user")
	case errors.Is(err, user.ErrUserAlreadyActive), errors.Is(err, user.ErrUserAlreadyInactive):
		Conflict(w, err.Error())

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "A department with this name already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrHolidayExists):
		Conflict(w, "A holiday already exists on this date")
	case errors.Is(err, attendance.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, attendance.ErrInvalidConfiguration):
		UnprocessableEntity(w, "Attendance rules are invalid")
	case errors.Is(err, attendance.ErrUnknownPunchFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrMalformedPunchFile):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidMonth), errors.Is(err, report.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)

	// Default
	default:
		slog.Error("unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
