package user

import "context"

// UserService manages the employee directory.
type UserService interface {
	ListUsers(ctx context.Context, filter DirectoryFilter) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (User, error)

	// DeactivateUser stops attendance tracking for a user. History is kept.
	DeactivateUser(ctx context.Context, id string) (User, error)
	ReactivateUser(ctx context.Context, id string) (User, error)
}
