package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// ListByDeviceUsers implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListByDeviceUsers(ctx context.Context, deviceUserIDs []string, from, to time.Time) ([]attendance.PunchRecord, error) {
	if len(deviceUserIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, device_id, device_user_id, timestamp, verify_type, punch_type, created_at
		FROM punch_records
		WHERE device_user_id = ANY($1)
		  AND timestamp >= $2
		  AND timestamp < $3
		ORDER BY timestamp ASC
	`

	rows, err := q.Query(ctx, query, deviceUserIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.PunchRecord
	for rows.Next() {
		var p attendance.PunchRecord
		if err := rows.Scan(&p.ID, &p.DeviceID, &p.DeviceUserID, &p.Timestamp, &p.VerifyType, &p.PunchType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return punches, nil
}

// BulkInsert implements attendance.PunchRepository.
func (r *punchRepositoryImpl) BulkInsert(ctx context.Context, punches []attendance.PunchRecord) (int64, error) {
	if len(punches) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_records (id, device_id, device_user_id, timestamp, verify_type, punch_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (device_id, device_user_id, timestamp) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, p := range punches {
		id := p.ID
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				return 0, fmt.Errorf("failed to generate punch id: %w", err)
			}
			id = v7.String()
		}
		batch.Queue(query, id, p.DeviceID, p.DeviceUserID, p.Timestamp, p.VerifyType, p.PunchType)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range punches {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert punch: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
