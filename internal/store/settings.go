package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// GetSetting returns the raw JSON value stored under key. ok is false when the
// key is absent.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (json.RawMessage, bool, error) {
	db, err := s.conn()
	if err != nil {
		return nil, false, err
	}

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap("get setting", err)
	}
	return json.RawMessage(value), true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *SQLiteStore) SetSetting(ctx context.Context, key string, value any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(b))
	return wrap("set setting", err)
}
