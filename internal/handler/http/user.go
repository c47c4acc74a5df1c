package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeactivateUser(w http.ResponseWriter, r *http.Request)
	ReactivateUser(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// ListUsers handles GET /users
func (h *userHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := user.DirectoryFilter{
		DepartmentID: optionalParam(query.Get("department_id")),
		Search:       query.Get("search"),
	}
	if status := query.Get("status"); status != "" {
		s := user.Status(status)
		filter.Status = &s
	}

	result, err := h.userService.ListUsers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessList(w, result)
}

// GetUser handles GET /users/{id}
func (h *userHandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateUser handles POST /users
func (h *userHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created", result)
}

// UpdateUser handles PUT /users/{id}
func (h *userHandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.userService.UpdateUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User updated", result)
}

// DeactivateUser handles POST /users/{id}/deactivate
func (h *userHandlerImpl) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.DeactivateUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deactivated", result)
}

// ReactivateUser handles POST /users/{id}/reactivate
func (h *userHandlerImpl) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.ReactivateUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User reactivated", result)
}
