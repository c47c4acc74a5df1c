package department

import "context"

type DepartmentService interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (Department, error)
	UpdateDepartment(ctx context.Context, req UpdateDepartmentRequest) (Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}
