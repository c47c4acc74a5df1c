package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const rulesKey = "attendance_rules"

// SettingsRepository is a JSONB key/value store. It also serves the
// attendance rules under a fixed key.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get decodes the value stored under key into dst. found is false when the key is absent.
func (r *SettingsRepository) Get(ctx context.Context, key string, dst any) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var raw []byte
	err := q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode setting %q: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON under key, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, key string, value any) error {
	q := GetQuerier(ctx, r.db)

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}

	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// GetRules implements attendance.RulesRepository. Stored fields override the defaults.
func (r *SettingsRepository) GetRules(ctx context.Context) (attendance.AttendanceRules, error) {
	rules := attendance.DefaultRules()
	if _, err := r.Get(ctx, rulesKey, &rules); err != nil {
		return attendance.AttendanceRules{}, err
	}
	return rules, nil
}

// SaveRules implements attendance.RulesRepository.
func (r *SettingsRepository) SaveRules(ctx context.Context, rules attendance.AttendanceRules) error {
	return r.Set(ctx, rulesKey, rules)
}
