// Package storage persists preferences and focus sessions in sqlite.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Session is one finished (or abandoned) countdown.
type Session struct {
	ID        string
	Variant   string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Elapsed   time.Duration
	Completed bool
}

// Store is a sqlite-backed preference and session store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}
	return s, nil
}

func (s *Store) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS prefs (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			variant     TEXT NOT NULL,
			started_at  INTEGER NOT NULL,
			ended_at    INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			elapsed_ms  INTEGER NOT NULL,
			completed   INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetPref decodes the stored value for key into v. It reports false when
// the key has never been set.
func (s *Store) GetPref(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get pref %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode pref %s: %w", key, err)
	}
	return true, nil
}

// SetPref stores v as JSON under key, replacing any previous value.
func (s *Store) SetPref(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode pref %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

// SaveSession inserts or replaces a session.
func (s *Store) SaveSession(sess Session) error {
	if sess.ID == "" {
		return errors.New("save session: empty id")
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sessions (id, variant, started_at, ended_at, duration_ms, elapsed_ms, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.Variant, sess.StartedAt.UnixMilli(), sess.EndedAt.UnixMilli(),
		sess.Duration.Milliseconds(), sess.Elapsed.Milliseconds(), sess.Completed)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Sessions returns up to limit sessions, most recently ended first.
func (s *Store) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, variant, started_at, ended_at, duration_ms, elapsed_ms, completed
		FROM sessions
		ORDER BY ended_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess                        Session
			started, ended, dur, elapse int64
		)
		if err := rows.Scan(&sess.ID, &sess.Variant, &started, &ended, &dur, &elapse, &sess.Completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt = time.UnixMilli(started).UTC()
		sess.EndedAt = time.UnixMilli(ended).UTC()
		sess.Duration = time.Duration(dur) * time.Millisecond
		sess.Elapsed = time.Duration(elapse) * time.Millisecond
		out = append(out, sess)
	}
	return out, rows.Err()
}
