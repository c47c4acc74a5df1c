package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) attendance.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListBetween implements attendance.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, startDate, endDate string) ([]attendance.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), name, created_at
		FROM holidays
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []attendance.Holiday
	for rows.Next() {
		var h attendance.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}

// Create implements attendance.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, holiday attendance.Holiday) (attendance.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Holiday{}, fmt.Errorf("failed to generate holiday id: %w", err)
	}

	query := `
		INSERT INTO holidays (id, date, name)
		VALUES ($1, $2, $3)
		RETURNING id, to_char(date, 'YYYY-MM-DD'), name, created_at
	`

	var created attendance.Holiday
	err = q.QueryRow(ctx, query, id.String(), holiday.Date, holiday.Name).
		Scan(&created.ID, &created.Date, &created.Name, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Holiday{}, attendance.ErrHolidayExists
		}
		return attendance.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// Delete implements attendance.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, date string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrHolidayNotFound
	}
	return nil
}
