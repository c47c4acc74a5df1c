package user

import (
	"context"
)

// ListFilter narrows the active-user directory. Nil fields are not applied.
type ListFilter struct {
	DepartmentID *string
	UserIDs      []string
}

type UserRepository interface {
	// ListActive returns active users ordered by display name.
	ListActive(ctx context.Context, filter ListFilter) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	CountActive(ctx context.Context) (int, error)

	// Directory management
	List(ctx context.Context, filter DirectoryFilter) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	SetStatus(ctx context.Context, id string, status Status) error
}
