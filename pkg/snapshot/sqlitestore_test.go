package snapshot

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"taskstore/pkg/task"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	st := task.State{
		Tasks: []task.Task{
			{ID: "a", Text: "Buy milk"},
			{ID: "b", Text: "Walk dog", Completed: true},
		},
		Filter: task.FilterCompleted,
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
}

func TestSQLiteStoreAbsent(t *testing.T) {
	s := openTestSQLite(t)
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load before any save should not error, got %v", err)
	}
	if got != nil {
		t.Errorf("load before any save: want nil, got %+v", got)
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	if err := s.Save(ctx, task.State{Tasks: []task.Task{{ID: "a", Text: "A"}}, Filter: task.FilterAll}); err != nil {
		t.Fatalf("save first: %v", err)
	}
	want := task.State{Tasks: []task.Task{}, Filter: task.FilterActive}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("upsert: want %+v, got %+v", want, *got)
	}
}
