package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"taskstore/pkg/task"
)

// SQLiteStore is an embedded, CGO-free snapshot store for single-machine
// use without a database server.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// OpenSQLiteStore opens (creating if necessary) the SQLite database at
// path and prepares the snapshots table.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	s := &SQLiteStore{db: db, key: DefaultKey}
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the snapshots table if it doesn't exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			state      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	return err
}

// Load returns the snapshot for this store's key, or (nil, nil) if none
// has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (*task.State, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM snapshots WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", s.key, err)
	}

	var st task.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.key, err)
	}
	if st.Tasks == nil {
		st.Tasks = []task.Task{}
	}
	return &st, nil
}

// Save upserts the snapshot row for this store's key.
func (s *SQLiteStore) Save(ctx context.Context, st task.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
