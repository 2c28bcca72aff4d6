package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingsStore keeps per-service credentials in integration_services.
type SettingsStore struct {
	q Executor
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{q: db.Pool}
}

// LoadSettings returns the raw settings JSON, or nil when the service has
// never been enabled.
func (s *SettingsStore) LoadSettings(ctx context.Context, service string) ([]byte, error) {
	query := `SELECT custom_settings_json FROM integration_services WHERE service = $1`

	var raw []byte
	err := s.q.QueryRow(ctx, query, service).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings for %s: %w", service, err)
	}
	return raw, nil
}

func (s *SettingsStore) SaveSettings(ctx context.Context, service string, settings []byte, useTestAccount bool) error {
	query := `INSERT INTO integration_services (service, enabled, use_test_account, custom_settings_json, modified_at)
			  VALUES ($1, TRUE, $2, $3, NOW())
			  ON CONFLICT (service) DO UPDATE
			  SET enabled = TRUE,
			      use_test_account = EXCLUDED.use_test_account,
			      custom_settings_json = EXCLUDED.custom_settings_json,
			      modified_at = NOW()`

	if _, err := s.q.Exec(ctx, query, service, useTestAccount, settings); err != nil {
		return fmt.Errorf("failed to save settings for %s: %w", service, err)
	}
	return nil
}
