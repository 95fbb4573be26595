// pkg/settings/postgres.go

package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // Import the PostgreSQL driver
)

const (
	createSettingsTable = `CREATE TABLE IF NOT EXISTS invoice_settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`
	selectSetting = `SELECT value FROM invoice_settings WHERE key = $1`
	upsertSetting = `INSERT INTO invoice_settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
)

// PGStore keeps values in a Postgres table.
type PGStore struct {
	db *sql.DB
}

// OpenPGStore connects to dsn and makes sure the settings table exists.
func OpenPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to settings database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSettingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Get returns the value for key, or ErrNotFound when no row exists.
func (p *PGStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, selectSetting, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (p *PGStore) Set(ctx context.Context, key, value string) error {
	if _, err := p.db.ExecContext(ctx, upsertSetting, key, value); err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (p *PGStore) Close() error {
	return p.db.Close()
}
