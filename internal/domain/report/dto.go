package report

import (
	"fmt"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

// Export formats accepted by the report endpoints.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var supportedFormats = []string{FormatJSON, FormatCSV, FormatXLSX}

// Filter narrows the users included in a report. Both fields are optional and
// combine with AND.
type Filter struct {
	DepartmentID *string  `json:"department_id,omitempty"`
	UserIDs      []string `json:"user_ids,omitempty"`
}

// ========================================
// DAY & AGGREGATES
// ========================================

// DayAttendance is one date of a report row: a stored DailySummary projected
// onto the report, or a placeholder when no summary exists.
type DayAttendance struct {
	Date         string            `json:"date"`
	DayOfWeek    string            `json:"day_of_week"`
	CheckInTime  *string           `json:"check_in_time"`
	CheckOutTime *string           `json:"check_out_time"`
	Status       attendance.Status `json:"status"`
	LateMinutes  int               `json:"late_minutes"`
	EarlyMinutes int               `json:"early_minutes"`
	IsIncomplete bool              `json:"is_incomplete"`
}

type WeeklySummary struct {
	DaysPresent       int `json:"days_present"`
	DaysAbsent        int `json:"days_absent"`
	TotalLateMinutes  int `json:"total_late_minutes"`
	TotalEarlyMinutes int `json:"total_early_minutes"`
	IncompleteDays    int `json:"incomplete_days"`
}

type MonthlySummary struct {
	DaysPresent          int `json:"days_present"`
	DaysAbsent           int `json:"days_absent"`
	TotalLateMinutes     int `json:"total_late_minutes"`
	TotalEarlyMinutes    int `json:"total_early_minutes"`
	IncompleteDays       int `json:"incomplete_days"`
	TotalWorkingDays     int `json:"total_working_days"`
	AttendancePercentage int `json:"attendance_percentage"`
}

// ========================================
// WEEKLY REPORT
// ========================================

type WeeklyReportRow struct {
	User    user.User       `json:"user"`
	Days    []DayAttendance `json:"days"`
	Summary WeeklySummary   `json:"summary"`
}

type WeeklyReport struct {
	WeekStart   string            `json:"week_start"`
	WeekEnd     string            `json:"week_end"`
	GeneratedAt string            `json:"generated_at"`
	Rows        []WeeklyReportRow `json:"rows"`
}

type WeeklyReportRequest struct {
	WeekStart    string   `json:"week_start"`
	DepartmentID *string  `json:"department_id,omitempty"`
	UserIDs      []string `json:"user_ids,omitempty"`
	Format       string   `json:"format"`
}

func (r *WeeklyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.WeekStart); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "week_start",
			Message: "week_start must be in YYYY-MM-DD format",
		})
	}
	errs = append(errs, validateFilter(r.DepartmentID, r.Format)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *WeeklyReportRequest) Filter() *Filter {
	return &Filter{DepartmentID: r.DepartmentID, UserIDs: r.UserIDs}
}

// ========================================
// MONTHLY REPORT
// ========================================

type MonthlyReportRow struct {
	User         user.User       `json:"user"`
	DailyDetails []DayAttendance `json:"daily_details"`
	Summary      MonthlySummary  `json:"summary"`
}

type MonthlyReport struct {
	Year        int                `json:"year"`
	Month       int                `json:"month"`
	PeriodStart string             `json:"period_start"`
	PeriodEnd   string             `json:"period_end"`
	GeneratedAt string             `json:"generated_at"`
	Rows        []MonthlyReportRow `json:"rows"`
}

type MonthlyReportRequest struct {
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	DepartmentID *string  `json:"department_id,omitempty"`
	UserIDs      []string `json:"user_ids,omitempty"`
	Format       string   `json:"format"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}
	errs = append(errs, validateFilter(r.DepartmentID, r.Format)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *MonthlyReportRequest) Filter() *Filter {
	return &Filter{DepartmentID: r.DepartmentID, UserIDs: r.UserIDs}
}

func validateFilter(departmentID *string, format string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if departmentID != nil && validator.IsEmpty(*departmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must not be blank",
		})
	}
	if format != "" && !validator.IsInSlice(format, supportedFormats) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of json, csv, xlsx",
		})
	}
	return errs
}

// ========================================
// EXPORT
// ========================================

// ExportFile is a rendered report ready to be sent as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
