// Package prefs persists the small slice of list filter/sort
// preferences that survives app restarts. Values are JSON blobs in a
// single SQLite key/value table; everything here is best effort.
package prefs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no value exists for a key.
var ErrNotFound = errors.New("preference not found")

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the preference database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference db: %w", err)
	}
	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	createTable := `
    CREATE TABLE IF NOT EXISTS preferences (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	if _, err := s.db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to init preference schema: %w", err)
	}
	return nil
}

// Save stores v under key, replacing any previous value.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal preference %q: %w", key, err)
	}
	query := `INSERT OR REPLACE INTO preferences (key, value) VALUES (?, ?)`
	if _, err := s.db.Exec(query, key, string(data)); err != nil {
		return fmt.Errorf("failed to save preference %q: %w", key, err)
	}
	return nil
}

// Load reads the value stored under key into out.
func (s *Store) Load(key string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load preference %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to parse preference %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
