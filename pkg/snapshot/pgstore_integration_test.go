package snapshot

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskstore/pkg/task"
)

func openTestPg(t *testing.T) *PgStore {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set (integration test)")
	}

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	s := NewPgStoreKey(pool, "tasks_test")
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return s
}

func TestPgStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestPg(t)

	st := task.State{
		Tasks: []task.Task{
			{ID: "a", Text: "Buy milk"},
			{ID: "b", Text: "Walk dog", Completed: true},
		},
		Filter: task.FilterActive,
	}
	if err := s.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("load returned nil after save")
	}
	if !reflect.DeepEqual(*got, st) {
		t.Errorf("round trip: want %+v, got %+v", st, *got)
	}

	// Saves overwrite: a second save replaces the row entirely.
	want := task.State{Tasks: []task.Task{}, Filter: task.FilterAll}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save second: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("load second: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("overwrite: want %+v, got %+v", want, *got)
	}
}
