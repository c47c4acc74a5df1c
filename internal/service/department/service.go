package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
)

type DepartmentServiceImpl struct {
	department.DepartmentRepository
}

func NewDepartmentService(departmentRepo department.DepartmentRepository) department.DepartmentService {
	return &DepartmentServiceImpl{DepartmentRepository: departmentRepo}
}

// ListDepartments implements department.DepartmentService.
func (s *DepartmentServiceImpl) ListDepartments(ctx context.Context) ([]department.Department, error) {
	departments, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// GetDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) GetDepartment(ctx context.Context, id string) (department.Department, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.Department{}, err
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// CreateDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.Department, error) {
	if err := req.Validate(); err != nil {
		return department.Department{}, err
	}

	created, err := s.DepartmentRepository.Create(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNameExists) {
			return department.Department{}, err
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	slog.Info("department created", "department_id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.Department, error) {
	if err := req.Validate(); err != nil {
		return department.Department{}, err
	}

	if _, err := s.DepartmentRepository.Update(ctx, req.ID, strings.TrimSpace(req.Name)); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) || errors.Is(err, department.ErrDepartmentNameExists) {
			return department.Department{}, err
		}
		return department.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	return s.GetDepartment(ctx, req.ID)
}

// DeleteDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.DepartmentRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}

	slog.Info("department deleted", "department_id", id)
	return nil
}
