package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"taskstore/internal/api"
	"taskstore/internal/db"
	"taskstore/pkg/snapshot"
	"taskstore/pkg/store"
)

func main() {
	ctx := context.Background()

	snap, cleanup, err := openSnapshot(ctx)
	if err != nil {
		log.Fatalf("open snapshot store: %v", err)
	}
	defer cleanup()

	st := store.New(ctx, store.NewReducer(), snap)
	defer st.Close()
	st.OnSaveError(func(err error) {
		log.Printf("server: snapshot save failed: %v", err)
	})

	server := api.New(st)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("taskstore listening on :%s", port)
	if err := http.ListenAndServe(":"+port, server); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

// openSnapshot picks the snapshot backend from the environment: Postgres
// when DATABASE_URL is set, else SQLite when SQLITE_PATH is set, else a
// JSON file at STATE_PATH (default ./tasks.json).
func openSnapshot(ctx context.Context) (snapshot.Store, func(), error) {
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		pg := snapshot.NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Println("server: using postgres snapshot store")
		return pg, pool.Close, nil
	}

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		s, err := snapshot.OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("server: using sqlite snapshot store at %s", path)
		return s, func() { s.Close() }, nil
	}

	path := os.Getenv("STATE_PATH")
	if path == "" {
		path = "tasks.json"
	}
	fs := snapshot.NewFileStore(path)
	if err := fs.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	log.Printf("server: using file snapshot store at %s", path)
	return fs, func() {}, nil
}
