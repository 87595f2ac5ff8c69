package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskstore/pkg/task"
)

// PgStore is a PostgreSQL-backed snapshot store. All saves for one key
// land in a single row, upserted on every write.
type PgStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPgStore creates a PgStore writing under DefaultKey.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool, key: DefaultKey}
}

// NewPgStoreKey creates a PgStore writing under a custom key, so multiple
// independent stores can share one database.
func NewPgStoreKey(pool *pgxpool.Pool, key string) *PgStore {
	return &PgStore{pool: pool, key: key}
}

// EnsureSchema creates the snapshots table if it doesn't exist.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Load returns the snapshot for this store's key, or (nil, nil) if none
// has been saved.
func (s *PgStore) Load(ctx context.Context) (*task.State, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM snapshots WHERE key = $1`, s.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
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
func (s *PgStore) Save(ctx context.Context, st task.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	now := time.Now().Truncate(time.Microsecond)
	_, err = s.pool.Exec(ctx, `
		INSERT INTO snapshots (key, state, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE SET state = $2::jsonb, updated_at = $3`,
		s.key, string(data), now)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.key, err)
	}
	return nil
}
