package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	userRepo       user.UserRepository
	departmentRepo department.DepartmentRepository
}

func NewUserService(userRepo user.UserRepository, departmentRepo department.DepartmentRepository) user.UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
	}
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter user.DirectoryFilter) ([]user.User, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}
	newUser := req.ToUser()

	if err := s.checkDepartment(ctx, newUser.DepartmentID); err != nil {
		return user.User{}, err
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrDeviceUserIDExists) || errors.Is(err, department.ErrDepartmentNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", created.ID, "device_user_id", created.DeviceUserID)
	return s.GetUser(ctx, created.ID)
}

// UpdateUser implements user.UserService.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}
	if req.IsEmpty() {
		return s.GetUser(ctx, req.ID)
	}

	if req.DepartmentID != nil {
		if err := s.checkDepartment(ctx, user.NullableText(req.DepartmentID)); err != nil {
			return user.User{}, err
		}
	}

	if err := s.userRepo.Update(ctx, req); err != nil {
		if errors.Is(err, user.ErrUserNotFound) ||
			errors.Is(err, user.ErrDeviceUserIDExists) ||
			errors.Is(err, department.ErrDepartmentNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated", "user_id", req.ID)
	return s.GetUser(ctx, req.ID)
}

// DeactivateUser implements user.UserService.
func (s *UserServiceImpl) DeactivateUser(ctx context.Context, id string) (user.User, error) {
	return s.setStatus(ctx, id, user.StatusInactive, user.ErrUserAlreadyInactive)
}

// ReactivateUser implements user.UserService.
func (s *UserServiceImpl) ReactivateUser(ctx context.Context, id string) (user.User, error) {
	return s.setStatus(ctx, id, user.StatusActive, user.ErrUserAlreadyActive)
}

func (s *UserServiceImpl) setStatus(ctx context.Context, id string, status user.Status, errUnchanged error) (user.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if u.Status == status {
		return user.User{}, errUnchanged
	}

	if err := s.userRepo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to update user status: %w", err)
	}

	slog.Info("user status changed", "user_id", id, "status", status)
	return s.GetUser(ctx, id)
}

// checkDepartment verifies that a non-nil department id exists.
func (s *UserServiceImpl) checkDepartment(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.departmentRepo.GetByID(ctx, *id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return err
		}
		return fmt.Errorf("failed to get department: %w", err)
	}
	return nil
}
