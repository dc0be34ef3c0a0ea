// Package sqlite stores profiles in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/samdwyer/bitacora/internal/gamedata"
	"github.com/samdwyer/bitacora/internal/profile"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS profiles_name ON profiles (name COLLATE NOCASE);
`

// Store is a SQLite-backed profile.Store. Each profile is one row holding
// its JSON document.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// List returns every profile ordered by name.
func (s *Store) List(ctx context.Context) ([]gamedata.Profile, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT data FROM profiles ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []gamedata.Profile
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p, err := decode(data)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Get returns one profile.
func (s *Store) Get(ctx context.Context, id string) (gamedata.Profile, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM profiles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return gamedata.Profile{}, fmt.Errorf("get %q: %w", id, profile.ErrNotFound)
	}
	if err != nil {
		return gamedata.Profile{}, fmt.Errorf("get profile %q: %w", id, err)
	}
	return decode(data)
}

// Save inserts or replaces a profile.
func (s *Store) Save(ctx context.Context, p gamedata.Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.ID, err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO profiles (id, name, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, p.Name, string(data), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save profile %q: %w", p.ID, err)
	}
	return nil
}

// Delete removes a profile.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", id, profile.ErrNotFound)
	}
	return nil
}

func decode(data string) (gamedata.Profile, error) {
	p, err := gamedata.Decode[gamedata.Profile](strings.NewReader(data), "profiles row")
	if err != nil {
		return gamedata.Profile{}, err
	}
	profile.Normalize(&p)
	return p, nil
}

var _ profile.Store = (*Store)(nil)
