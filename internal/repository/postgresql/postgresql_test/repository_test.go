package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper untuk membuat department dan user untuk testing
func createTestDepartment(t *testing.T, setup *TestDatabaseSetup, name string) string {
	var id string
	err := setup.DB.QueryRow(context.Background(), `
		INSERT INTO departments (name) VALUES ($1) RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestUser(t *testing.T, setup *TestDatabaseSetup, name, deviceUserID string, departmentID *string, status string) string {
	var id string
	err := setup.DB.QueryRow(context.Background(), `
		INSERT INTO users (device_user_id, display_name, department_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, deviceUserID, name, departmentID, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestUserRepository_ListActive(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	// Setup
	eng := createTestDepartment(t, setup, "Engineering")
	ops := createTestDepartment(t, setup, "Operations")
	aliceID := createTestUser(t, setup, "Alice", "101", &eng, "active")
	bobID := createTestUser(t, setup, "Bob", "102", &ops, "active")
	createTestUser(t, setup, "Dave", "104", &eng, "inactive")

	t.Run("all active users ordered by name", func(t *testing.T) {
		users, err := repo.ListActive(ctx, user.ListFilter{})

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, aliceID, users[0].ID)
		assert.Equal(t, bobID, users[1].ID)
		require.NotNil(t, users[0].DepartmentName)
		assert.Equal(t, "Engineering", *users[0].DepartmentName)
	})

	t.Run("filter by department", func(t *testing.T) {
		users, err := repo.ListActive(ctx, user.ListFilter{DepartmentID: &ops})

		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].DisplayName)
	})

	t.Run("filter by ids", func(t *testing.T) {
		users, err := repo.ListActive(ctx, user.ListFilter{UserIDs: []string{aliceID}})

		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, aliceID, users[0].ID)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.CountActive(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("get by id", func(t *testing.T) {
		u, err := repo.GetByID(ctx, bobID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", u.DisplayName)

		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Directory(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	// Setup
	eng := createTestDepartment(t, setup, "Engineering")
	created, err := repo.Create(ctx, user.User{
		DisplayName:  "Alice",
		DeviceUserID: strPtr("101"),
		DepartmentID: &eng,
		Email:        strPtr("alice@example.com"),
		Phone:        strPtr("+628123456789"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, user.StatusActive, created.Status)
	createTestUser(t, setup, "Dave", "104", nil, "inactive")

	t.Run("duplicate device user id", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{DisplayName: "Other", DeviceUserID: strPtr("101")})

		assert.ErrorIs(t, err, user.ErrDeviceUserIDExists)
	})

	t.Run("unknown department", func(t *testing.T) {
		missing := "00000000-0000-7000-8000-000000000000"
		_, err := repo.Create(ctx, user.User{DisplayName: "Other", DepartmentID: &missing})

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})

	t.Run("list includes inactive users", func(t *testing.T) {
		users, err := repo.List(ctx, user.DirectoryFilter{})

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Alice", users[0].DisplayName)
		assert.Equal(t, "Dave", users[1].DisplayName)
	})

	t.Run("list by status and search", func(t *testing.T) {
		inactive := user.StatusInactive
		users, err := repo.List(ctx, user.DirectoryFilter{Status: &inactive})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Dave", users[0].DisplayName)

		users, err = repo.List(ctx, user.DirectoryFilter{Search: "ALICE@"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, created.ID, users[0].ID)
	})

	t.Run("update sets and clears fields", func(t *testing.T) {
		err := repo.Update(ctx, user.UpdateUserRequest{
			ID:      created.ID,
			Address: strPtr("Jl. Merdeka 1"),
			Phone:   strPtr(""),
		})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Address)
		assert.Equal(t, "Jl. Merdeka 1", *got.Address)
		assert.Nil(t, got.Phone)
		require.NotNil(t, got.Email)
		assert.Equal(t, "alice@example.com", *got.Email)
	})

	t.Run("update unknown user", func(t *testing.T) {
		err := repo.Update(ctx, user.UpdateUserRequest{ID: "00000000-0000-7000-8000-000000000000", Notes: strPtr("x")})

		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("set status", func(t *testing.T) {
		require.NoError(t, repo.SetStatus(ctx, created.ID, user.StatusInactive))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, user.StatusInactive, got.Status)
		assert.ErrorIs(t, repo.SetStatus(ctx, "not-a-uuid", user.StatusActive), user.ErrUserNotFound)
	})
}

func TestDepartmentRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewDepartmentRepository(setup.DB)

	// Setup
	eng, err := repo.Create(ctx, "Engineering")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Operations")
	require.NoError(t, err)
	aliceID := createTestUser(t, setup, "Alice", "101", &eng.ID, "active")
	createTestUser(t, setup, "Dave", "104", &eng.ID, "inactive")

	t.Run("duplicate name", func(t *testing.T) {
		_, err := repo.Create(ctx, "Engineering")

		assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
	})

	t.Run("list counts active users", func(t *testing.T) {
		departments, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, departments, 2)
		assert.Equal(t, "Engineering", departments[0].Name)
		assert.Equal(t, 1, departments[0].ActiveUsers)
		assert.Equal(t, 0, departments[1].ActiveUsers)
	})

	t.Run("rename", func(t *testing.T) {
		renamed, err := repo.Update(ctx, eng.ID, "Platform")
		require.NoError(t, err)
		assert.Equal(t, "Platform", renamed.Name)

		_, err = repo.Update(ctx, eng.ID, "Operations")
		assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
	})

	t.Run("delete unassigns users", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, eng.ID))

		_, err := repo.GetByID(ctx, eng.ID)
		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

		got, err := postgresql.NewUserRepository(setup.DB).GetByID(ctx, aliceID)
		require.NoError(t, err)
		assert.Nil(t, got.DepartmentID)

		assert.ErrorIs(t, repo.Delete(ctx, eng.ID), department.ErrDepartmentNotFound)
	})
}

func TestPunchRepository_BulkInsertAndList(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPunchRepository(setup.DB)

	// Setup
	base := time.Date(2024, 1, 15, 8, 55, 0, 0, time.UTC)
	punches := []attendance.PunchRecord{
		{DeviceID: "dev-1", DeviceUserID: "101", Timestamp: base},
		{DeviceID: "dev-1", DeviceUserID: "101", Timestamp: base.Add(9 * time.Hour)},
		{DeviceID: "dev-1", DeviceUserID: "102", Timestamp: base.Add(time.Hour)},
		{DeviceID: "dev-1", DeviceUserID: "101", Timestamp: base.Add(24 * time.Hour)},
	}

	// Act
	inserted, err := repo.BulkInsert(ctx, punches)
	require.NoError(t, err)
	again, err := repo.BulkInsert(ctx, punches[:2])
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(4), inserted)
	assert.Equal(t, int64(0), again)

	listed, err := repo.ListByDeviceUsers(ctx, []string{"101"}, base.Add(-time.Hour), base.Add(23*time.Hour))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.True(t, listed[0].Timestamp.Equal(base))
	assert.True(t, listed[1].Timestamp.Equal(base.Add(9*time.Hour)))

	empty, err := repo.ListByDeviceUsers(ctx, nil, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSummaryRepository_Upsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSummaryRepository(setup.DB)

	// Setup
	userID := createTestUser(t, setup, "Alice", "101", nil, "active")
	in := "09:20"
	first := attendance.DailySummary{
		UserID:       userID,
		Date:         "2024-01-15",
		CheckInTime:  &in,
		IsIncomplete: true,
		LateMinutes:  5,
		Status:       attendance.StatusIncomplete,
		Flags:        []string{attendance.FlagSinglePunchCheckIn},
	}

	// Act
	created, err := repo.Upsert(ctx, first)
	require.NoError(t, err)

	out := "18:05"
	second := first
	second.CheckOutTime = &out
	second.IsIncomplete = false
	second.Status = attendance.StatusLate
	second.Flags = nil
	updated, err := repo.Upsert(ctx, second)
	require.NoError(t, err)

	// Assert
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "2024-01-15", updated.Date)
	assert.Equal(t, attendance.StatusLate, updated.Status)
	require.NotNil(t, updated.CheckOutTime)
	assert.Equal(t, "18:05", *updated.CheckOutTime)
	assert.Equal(t, []string{}, updated.Flags)

	byUser, err := repo.ListByUserAndRange(ctx, userID, "2024-01-15", "2024-01-21")
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	byDate, err := repo.ListByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, userID, byDate[0].UserID)

	none, err := repo.ListByDate(ctx, "2024-01-16")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummaryRepository_ListByDate_SkipsInactiveUsers(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSummaryRepository(setup.DB)

	// Setup
	activeID := createTestUser(t, setup, "Alice", "101", nil, "active")
	inactiveID := createTestUser(t, setup, "Dave", "104", nil, "inactive")
	for _, id := range []string{activeID, inactiveID} {
		_, err := repo.Upsert(ctx, attendance.DailySummary{
			UserID: id,
			Date:   "2024-01-15",
			Status: attendance.StatusAbsent,
		})
		require.NoError(t, err)
	}

	// Act
	byDate, err := repo.ListByDate(ctx, "2024-01-15")

	// Assert
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, activeID, byDate[0].UserID)
	assert.Equal(t, "2024-01-15", byDate[0].Date)
}

func TestHolidayRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(setup.DB)

	name := "New Year"
	created, err := repo.Create(ctx, attendance.Holiday{Date: "2024-01-01", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", created.Date)

	_, err = repo.Create(ctx, attendance.Holiday{Date: "2024-01-01"})
	assert.ErrorIs(t, err, attendance.ErrHolidayExists)

	listed, err := repo.ListBetween(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Name)
	assert.Equal(t, "New Year", *listed[0].Name)

	require.NoError(t, repo.Delete(ctx, "2024-01-01"))
	assert.ErrorIs(t, repo.Delete(ctx, "2024-01-01"), attendance.ErrHolidayNotFound)
}

func TestSettingsRepository_Rules(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(setup.DB)

	rules, err := repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.DefaultRules(), rules)

	rules.WorkStartTime = "08:30"
	rules.Workdays = []int{1, 2, 3, 4, 5, 6}
	require.NoError(t, repo.SaveRules(ctx, rules))

	loaded, err := repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, rules, loaded)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, attendance.Holiday{Date: "2024-05-01"}); err != nil {
			return err
		}
		_, err := repo.Create(txCtx, attendance.Holiday{Date: "2024-05-01"})
		return err
	})
	assert.ErrorIs(t, err, attendance.ErrHolidayExists)

	listed, err := repo.ListBetween(ctx, "2024-05-01", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, listed)
}
