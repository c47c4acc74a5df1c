package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type summaryRepositoryImpl struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) attendance.SummaryRepository {
	return &summaryRepositoryImpl{db: db}
}

const summaryColumns = `
	id, user_id, to_char(date, 'YYYY-MM-DD'), check_in_time, check_out_time,
	is_incomplete, late_minutes, early_minutes, status, flags, created_at, updated_at`

// summaryColumnsAliased selects the same columns through the "s" alias for joins.
const summaryColumnsAliased = `
	s.id, s.user_id, to_char(s.date, 'YYYY-MM-DD'), s.check_in_time, s.check_out_time,
	s.is_incomplete, s.late_minutes, s.early_minutes, s.status, s.flags, s.created_at, s.updated_at`

func scanSummary(row pgx.Row) (attendance.DailySummary, error) {
	var (
		s      attendance.DailySummary
		status string
		flags  []byte
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Date,
		&s.CheckInTime,
		&s.CheckOutTime,
		&s.IsIncomplete,
		&s.LateMinutes,
		&s.EarlyMinutes,
		&status,
		&flags,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}
	s.Status = attendance.Status(status)
	s.Flags = []string{}
	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &s.Flags); err != nil {
			return s, fmt.Errorf("failed to decode flags: %w", err)
		}
	}
	return s, nil
}

// Upsert implements attendance.SummaryRepository.
func (r *summaryRepositoryImpl) Upsert(ctx context.Context, summary attendance.DailySummary) (attendance.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	if summary.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.DailySummary{}, fmt.Errorf("failed to generate summary id: %w", err)
		}
		summary.ID = id.String()
	}
	if summary.Flags == nil {
		summary.Flags = []string{}
	}
	flags, err := json.Marshal(summary.Flags)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to encode flags: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO attendance_summaries (
			id, user_id, date, check_in_time, check_out_time,
			is_incomplete, late_minutes, early_minutes, status, flags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			is_incomplete = EXCLUDED.is_incomplete,
			late_minutes = EXCLUDED.late_minutes,
			early_minutes = EXCLUDED.early_minutes,
			status = EXCLUDED.status,
			flags = EXCLUDED.flags,
			updated_at = NOW()
		RETURNING %s
	`, summaryColumns)

	saved, err := scanSummary(q.QueryRow(ctx, query,
		summary.ID,
		summary.UserID,
		summary.Date,
		summary.CheckInTime,
		summary.CheckOutTime,
		summary.IsIncomplete,
		summary.LateMinutes,
		summary.EarlyMinutes,
		string(summary.Status),
		flags,
	))
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to upsert summary: %w", err)
	}
	return saved, nil
}

// ListByUserAndRange implements attendance.SummaryRepository.
func (r *summaryRepositoryImpl) ListByUserAndRange(ctx context.Context, userID, startDate, endDate string) ([]attendance.DailySummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_summaries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, summaryColumns)

	return r.list(ctx, query, userID, startDate, endDate)
}

// ListByDate implements attendance.SummaryRepository. Only summaries of
// active users are returned.
func (r *summaryRepositoryImpl) ListByDate(ctx context.Context, date string) ([]attendance.DailySummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_summaries s
		JOIN users u ON u.id = s.user_id
		WHERE s.date = $1 AND u.status = 'active'
		ORDER BY s.user_id ASC
	`, summaryColumnsAliased)

	return r.list(ctx, query, date)
}

func (r *summaryRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, nil
}
