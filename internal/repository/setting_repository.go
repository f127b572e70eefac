package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SettingRepository provides data access for the key/value setting table.
// Sensitive values (provider tokens) are stored fernet-encrypted by the
// service layer; this repository only moves opaque strings.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Set stores or replaces a setting value.
func (s *SettingRepository) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO setting ("key", value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT ("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// Get retrieves a setting value. Returns sql.ErrNoRows wrapped as a plain
// error when the key is absent; callers decide whether absence is fatal.
func (s *SettingRepository) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM setting WHERE "key" = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}
