package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT d.id, d.name, d.created_at, d.updated_at,
		(SELECT COUNT(*) FROM users u WHERE u.department_id = d.id AND u.status = 'active')
	FROM departments d`

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt, &d.ActiveUsers)
	return d, err
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, departmentSelect+` ORDER BY d.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return departments, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	if _, err := uuid.Parse(id); err != nil {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, name string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to generate department id: %w", err)
	}

	query := `
		INSERT INTO departments (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at
	`

	var d department.Department
	err = q.QueryRow(ctx, query, id.String(), name).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return department.Department{}, mapDepartmentWriteError("create", err)
	}
	return d, nil
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, id, name string) (department.Department, error) {
	if _, err := uuid.Parse(id); err != nil {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at
	`

	var d department.Department
	err := q.QueryRow(ctx, query, name, id).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, mapDepartmentWriteError("update", err)
	}
	return d, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return department.ErrDepartmentNotFound
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

func mapDepartmentWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return department.ErrDepartmentNameExists
	}
	return fmt.Errorf("failed to %s department: %w", op, err)
}
