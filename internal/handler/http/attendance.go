package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	// Summaries
	ListSummaries(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)

	// Punches
	IngestPunches(w http.ResponseWriter, r *http.Request)

	// Rules
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)

	// Holidays
	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// ListSummaries handles GET /attendance/summaries
func (h *attendanceHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.SummaryFilter{
		UserID:    query.Get("user_id"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}

	result, err := h.attendanceService.ListSummaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessList(w, result)
}

// Process handles POST /attendance/process
func (h *attendanceHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	var req attendance.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ProcessRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance processed", result)
}

const maxPunchUploadBytes = 16 << 20

// IngestPunches handles POST /punches. The body is a JSON punch list, or a
// punch CSV when Content-Type is text/csv.
func (h *attendanceHandlerImpl) IngestPunches(w http.ResponseWriter, r *http.Request) {
	format := attendance.PunchFormatJSON
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "text/csv" {
		format = attendance.PunchFormatCSV
	}

	req, err := attendance.DecodePunches(http.MaxBytesReader(w, r.Body, maxPunchUploadBytes), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.IngestPunches(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punches imported", result)
}

// GetRules handles GET /attendance/rules
func (h *attendanceHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateRules handles PUT /attendance/rules
func (h *attendanceHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req attendance.AttendanceRules
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateRules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance rules updated", result)
}

// ListHolidays handles GET /holidays
func (h *attendanceHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result, err := h.attendanceService.ListHolidays(r.Context(), query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessList(w, result)
}

// CreateHoliday handles POST /holidays
func (h *attendanceHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

// DeleteHoliday handles DELETE /holidays/{date}
func (h *attendanceHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteHoliday(r.Context(), chi.URLParam(r, "date")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}
