package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	// GetWeeklyReport handles GET /reports/weekly
	GetWeeklyReport(w http.ResponseWriter, r *http.Request)
	// GetMonthlyReport handles GET /reports/monthly
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) GetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := report.WeeklyReportRequest{
		WeekStart:    query.Get("week_start"),
		DepartmentID: optionalParam(query.Get("department_id")),
		UserIDs:      validator.SplitCSVParam(query.Get("user_ids")),
		Format:       strings.ToLower(query.Get("format")),
	}

	if isExport(req.Format) {
		file, err := h.reportService.ExportWeekly(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.File(w, file.Filename, file.ContentType, file.Data)
		return
	}

	result, err := h.reportService.WeeklyReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.MonthlyReportRequest{
		Year:         year,
		Month:        month,
		DepartmentID: optionalParam(query.Get("department_id")),
		UserIDs:      validator.SplitCSVParam(query.Get("user_ids")),
		Format:       strings.ToLower(query.Get("format")),
	}

	if isExport(req.Format) {
		file, err := h.reportService.ExportMonthly(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.File(w, file.Filename, file.ContentType, file.Data)
		return
	}

	result, err := h.reportService.MonthlyReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// isExport reports whether format asks for a file rather than the JSON envelope.
// Unknown formats are routed to the export path so they fail validation there.
func isExport(format string) bool {
	return format != "" && format != report.FormatJSON
}

func optionalParam(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
