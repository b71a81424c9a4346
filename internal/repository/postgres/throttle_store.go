package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ThrottleStore persists login throttle state server-side, keyed by client
// device. It satisfies throttle.Store; the context-free signatures mirror the
// key/value semantics of the guard.
type ThrottleStore struct {
	db *sql.DB
}

func NewThrottleStore(db *sql.DB) *ThrottleStore {
	return &ThrottleStore{db: db}
}

func (s *ThrottleStore) Get(key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM throttle_state WHERE key = $1`
	err := s.db.QueryRowContext(context.Background(), query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *ThrottleStore) Set(key, value string) error {
	query := `INSERT INTO throttle_state (key, value, updated_on) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = $2, updated_on = $3`
	_, err := s.db.ExecContext(context.Background(), query, key, value, time.Now())
	return err
}

func (s *ThrottleStore) Delete(key string) error {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM throttle_state WHERE key = $1`, key)
	return err
}

// Purge removes rows untouched for longer than olderThan. Expired lockouts
// are otherwise cleared lazily on the next check, so this only reclaims rows
// for devices that never came back.
func (s *ThrottleStore) Purge(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(context.Background(), `DELETE FROM throttle_state WHERE updated_on < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
