package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.device_user_id, u.device_name, u.display_name, u.department_id::text,
	u.employee_code, u.email, u.phone, u.address, u.notes,
	u.status, u.created_at, u.updated_at, d.name`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u      user.User
		status string
	)
	err := row.Scan(
		&u.ID,
		&u.DeviceUserID,
		&u.DeviceName,
		&u.DisplayName,
		&u.DepartmentID,
		&u.EmployeeCode,
		&u.Email,
		&u.Phone,
		&u.Address,
		&u.Notes,
		&status,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DepartmentName,
	)
	u.Status = user.Status(status)
	return u, err
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	conditions := []string{"u.status = 'active'"}
	args := []interface{}{}
	argIdx := 1

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("u.department_id::text = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if len(filter.UserIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("u.id::text = ANY($%d)", argIdx))
		args = append(args, filter.UserIDs)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE %s
		ORDER BY u.display_name ASC, u.id ASC
	`, userColumns, strings.Join(conditions, " AND "))

	users, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

func (r *userRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.id = $1
	`, userColumns)

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CountActive implements user.UserRepository.
func (r *userRepositoryImpl) CountActive(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE status = 'active'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}

// ========================================
// DIRECTORY
// ========================================

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.DirectoryFilter) ([]user.User, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("u.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("u.department_id::text = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(u.display_name ILIKE $%[1]d OR u.employee_code ILIKE $%[1]d OR u.device_user_id ILIKE $%[1]d OR u.email ILIKE $%[1]d)",
			argIdx,
		))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE %s
		ORDER BY u.display_name ASC, u.id ASC
	`, userColumns, strings.Join(conditions, " AND "))

	users, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}
	if newUser.Status == "" {
		newUser.Status = user.StatusActive
	}

	query := `
		INSERT INTO users (
			id, device_user_id, device_name, display_name, department_id,
			employee_code, email, phone, address, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id.String(),
		newUser.DeviceUserID,
		newUser.DeviceName,
		newUser.DisplayName,
		newUser.DepartmentID,
		newUser.EmployeeCode,
		newUser.Email,
		newUser.Phone,
		newUser.Address,
		newUser.Notes,
		string(newUser.Status),
	).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		return user.User{}, mapUserWriteError("create", err)
	}
	return newUser, nil
}

// Update implements user.UserRepository. Blank optional fields are set to NULL.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	if _, err := uuid.Parse(req.ID); err != nil {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE users SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.DisplayName != nil {
		query += fmt.Sprintf(", display_name = $%d", argIdx)
		args = append(args, strings.TrimSpace(*req.DisplayName))
		argIdx++
	}

	optional := []struct {
		column string
		value  *string
	}{
		{"device_user_id", req.DeviceUserID},
		{"device_name", req.DeviceName},
		{"department_id", req.DepartmentID},
		{"employee_code", req.EmployeeCode},
		{"email", req.Email},
		{"phone", req.Phone},
		{"address", req.Address},
		{"notes", req.Notes},
	}
	for _, f := range optional {
		if f.value == nil {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", f.column, argIdx)
		args = append(args, user.NullableText(f.value))
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapUserWriteError("update", err)
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetStatus implements user.UserRepository.
func (r *userRepositoryImpl) SetStatus(ctx context.Context, id string, status user.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func mapUserWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return user.ErrDeviceUserIDExists
		case foreignKeyViolation:
			return department.ErrDepartmentNotFound
		}
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}
