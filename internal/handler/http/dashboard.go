package http

import (
	"net/http"

	"github.com/horus-attendance/horus-backend-go/internal/domain/dashboard"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetTodayStats handles GET /dashboard/today
	GetTodayStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date") // format: YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetTodayStats(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
