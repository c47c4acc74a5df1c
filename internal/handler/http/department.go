package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
)

type DepartmentHandler interface {
	ListDepartments(w http.ResponseWriter, r *http.Request)
	GetDepartment(w http.ResponseWriter, r *http.Request)
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	UpdateDepartment(w http.ResponseWriter, r *http.Request)
	DeleteDepartment(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{departmentService: departmentService}
}

// ListDepartments handles GET /departments
func (h *departmentHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessList(w, result)
}

// GetDepartment handles GET /departments/{id}
func (h *departmentHandlerImpl) GetDepartment(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateDepartment handles POST /departments
func (h *departmentHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.departmentService.CreateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created", result)
}

// UpdateDepartment handles PUT /departments/{id}
func (h *departmentHandlerImpl) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req department.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.departmentService.UpdateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department updated", result)
}

// DeleteDepartment handles DELETE /departments/{id}
func (h *departmentHandlerImpl) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.departmentService.DeleteDepartment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}
