package department

import "context"

type DepartmentRepository interface {
	// List returns departments ordered by name with their active user counts.
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	Create(ctx context.Context, name string) (Department, error)
	Update(ctx context.Context, id, name string) (Department, error)
	// Delete removes a department. Its users keep their records and lose the
	// department assignment.
	Delete(ctx context.Context, id string) error
}
