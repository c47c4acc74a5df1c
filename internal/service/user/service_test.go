package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type memoryUsers struct {
	user.UserRepository
	byID    map[string]user.User
	nextID  int
	updates int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]user.User{}}
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) List(ctx context.Context, filter user.DirectoryFilter) ([]user.User, error) {
	var out []user.User
	for _, u := range m.byID {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(u.DisplayName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryUsers) deviceTaken(deviceUserID *string, exceptID string) bool {
	if deviceUserID == nil {
		return false
	}
	for id, u := range m.byID {
		if id != exceptID && u.DeviceUserID != nil && *u.DeviceUserID == *deviceUserID {
			return true
		}
	}
	return false
}

func (m *memoryUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	if m.deviceTaken(u.DeviceUserID, "") {
		return user.User{}, user.ErrDeviceUserIDExists
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memoryUsers) Update(ctx context.Context, req user.UpdateUserRequest) error {
	u, ok := m.byID[req.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.DeviceUserID != nil && m.deviceTaken(user.NullableText(req.DeviceUserID), req.ID) {
		return user.ErrDeviceUserIDExists
	}
	m.updates++
	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	set := func(dst **string, v *string) {
		if v != nil {
			*dst = user.NullableText(v)
		}
	}
	set(&u.DeviceUserID, req.DeviceUserID)
	set(&u.DeviceName, req.DeviceName)
	set(&u.DepartmentID, req.DepartmentID)
	set(&u.EmployeeCode, req.EmployeeCode)
	set(&u.Email, req.Email)
	set(&u.Phone, req.Phone)
	set(&u.Address, req.Address)
	set(&u.Notes, req.Notes)
	m.byID[req.ID] = u
	return nil
}

func (m *memoryUsers) SetStatus(ctx context.Context, id string, status user.Status) error {
	u, ok := m.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Status = status
	m.byID[id] = u
	return nil
}

type knownDepartments struct {
	department.DepartmentRepository
	ids map[string]bool
}

func (k *knownDepartments) GetByID(ctx context.Context, id string) (department.Department, error) {
	if !k.ids[id] {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return department.Department{ID: id}, nil
}

func newUserFixture() (*memoryUsers, user.UserService) {
	users := newMemoryUsers()
	svc := NewUserService(users, &knownDepartments{ids: map[string]bool{"dept-eng": true}})
	return users, svc
}

func strPtr(s string) *string { return &s }

// ===== CREATE =====

func TestUserService_CreateUser_Success(t *testing.T) {
	// Setup
	ctx := context.Background()
	_, svc := newUserFixture()
	req := user.CreateUserRequest{
		DisplayName:  "  Alice  ",
		DeviceUserID: strPtr("101"),
		DepartmentID: strPtr("dept-eng"),
		Email:        strPtr("alice@example.com"),
		Phone:        strPtr("+62 812-3456-7890"),
		Address:      strPtr(" "),
		Notes:        strPtr("night shift"),
	}

	// Act
	created, err := svc.CreateUser(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice", created.DisplayName)
	assert.Equal(t, user.StatusActive, created.Status)
	require.NotNil(t, created.Email)
	assert.Equal(t, "alice@example.com", *created.Email)
	assert.Nil(t, created.Address)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "night shift", *created.Notes)
}

func TestUserService_CreateUser_ValidationError(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.CreateUser(context.Background(), user.CreateUserRequest{
		DisplayName: "",
		Email:       strPtr("not-an-email"),
		Phone:       strPtr("12"),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "display_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
}

func TestUserService_CreateUser_UnknownDepartment(t *testing.T) {
	users, svc := newUserFixture()

	_, err := svc.CreateUser(context.Background(), user.CreateUserRequest{DisplayName: "Bob", DepartmentID: strPtr("dept-ops")})

	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	assert.Empty(t, users.byID)
}

func TestUserService_CreateUser_DuplicateDeviceUserID(t *testing.T) {
	ctx := context.Background()
	_, svc := newUserFixture()
	_, err := svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Alice", DeviceUserID: strPtr("101")})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Bob", DeviceUserID: strPtr("101")})

	assert.ErrorIs(t, err, user.ErrDeviceUserIDExists)
}

// ===== UPDATE =====

func TestUserService_UpdateUser_ContactDetails(t *testing.T) {
	// Setup
	ctx := context.Background()
	users, svc := newUserFixture()
	created, err := svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Alice", Email: strPtr("old@example.com"), Notes: strPtr("temp")})
	require.NoError(t, err)

	// Act
	updated, err := svc.UpdateUser(ctx, user.UpdateUserRequest{
		ID:      created.ID,
		Email:   strPtr("alice@example.com"),
		Phone:   strPtr("081234567890"),
		Address: strPtr("12 Main Street"),
		Notes:   strPtr(""),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.DisplayName)
	assert.Equal(t, "alice@example.com", *updated.Email)
	assert.Equal(t, "081234567890", *updated.Phone)
	assert.Equal(t, "12 Main Street", *updated.Address)
	assert.Nil(t, updated.Notes)
	assert.Equal(t, 1, users.updates)
}

func TestUserService_UpdateUser_NoChanges(t *testing.T) {
	ctx := context.Background()
	users, svc := newUserFixture()
	created, err := svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Alice"})
	require.NoError(t, err)

	got, err := svc.UpdateUser(ctx, user.UpdateUserRequest{ID: created.ID})

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 0, users.updates)
}

func TestUserService_UpdateUser_Errors(t *testing.T) {
	ctx := context.Background()
	_, svc := newUserFixture()

	_, err := svc.UpdateUser(ctx, user.UpdateUserRequest{ID: "missing", DisplayName: strPtr("X")})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.UpdateUser(ctx, user.UpdateUserRequest{ID: "missing", DisplayName: strPtr("  ")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.UpdateUser(ctx, user.UpdateUserRequest{ID: "missing", DepartmentID: strPtr("dept-ops")})
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

// ===== STATUS =====

func TestUserService_DeactivateAndReactivate(t *testing.T) {
	ctx := context.Background()
	_, svc := newUserFixture()
	created, err := svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Alice"})
	require.NoError(t, err)

	deactivated, err := svc.DeactivateUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.StatusInactive, deactivated.Status)

	_, err = svc.DeactivateUser(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrUserAlreadyInactive)

	reactivated, err := svc.ReactivateUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.StatusActive, reactivated.Status)

	_, err = svc.ReactivateUser(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrUserAlreadyActive)

	_, err = svc.DeactivateUser(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

// ===== LIST =====

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	_, svc := newUserFixture()
	alice, err := svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Alice"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, user.CreateUserRequest{DisplayName: "Bob"})
	require.NoError(t, err)
	_, err = svc.DeactivateUser(ctx, alice.ID)
	require.NoError(t, err)

	inactive := user.StatusInactive
	users, err := svc.ListUsers(ctx, user.DirectoryFilter{Status: &inactive})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].DisplayName)

	all, err := svc.ListUsers(ctx, user.DirectoryFilter{Search: "bo"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].DisplayName)

	bogus := user.Status("archived")
	_, err = svc.ListUsers(ctx, user.DirectoryFilter{Status: &bogus})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestUserService_GetUser_RepositoryFailure(t *testing.T) {
	svc := NewUserService(&failingUsers{}, &knownDepartments{})

	_, err := svc.GetUser(context.Background(), "user-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get user")
}

type failingUsers struct {
	user.UserRepository
}

func (f *failingUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, errors.New("connection refused")
}
