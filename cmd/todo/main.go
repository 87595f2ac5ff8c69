package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"taskstore/internal/db"
	"taskstore/pkg/snapshot"
	"taskstore/pkg/store"
	"taskstore/pkg/task"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	snap, cleanup := openSnapshot(ctx)
	defer cleanup()

	st := store.New(ctx, store.NewReducer(), snap)
	// Close flushes the pending snapshot before the process exits.
	defer st.Close()
	st.OnSaveError(func(err error) {
		fmt.Fprintf(os.Stderr, "todo: snapshot save failed: %v\n", err)
	})

	switch os.Args[1] {
	case "add":
		text := strings.Join(os.Args[2:], " ")
		next, err := st.Dispatch(store.AddTask(text))
		if err != nil {
			fatal("%v", err)
		}
		created := next.Tasks[len(next.Tasks)-1]
		fmt.Printf("added %s  %s\n", truncStr(created.ID, 8), created.Text)

	case "ls":
		flags := parseFlags(os.Args[2:])
		state := st.State()
		if raw := flags["filter"]; raw != "" {
			f, err := task.ParseFilter(raw)
			if err != nil {
				fatal("%v", err)
			}
			state.Filter = f
		}
		printShortTasks(store.Project(state))

	case "toggle":
		if len(os.Args) < 3 {
			fatal("Usage: todo toggle <id>")
		}
		id := resolveID(st.State(), os.Args[2])
		if _, err := st.Dispatch(store.ToggleTask(id)); err != nil {
			fatal("%v", err)
		}

	case "edit":
		if len(os.Args) < 4 {
			fatal("Usage: todo edit <id> <text>")
		}
		id := resolveID(st.State(), os.Args[2])
		text := strings.Join(os.Args[3:], " ")
		if _, err := st.Dispatch(store.EditTask(id, text)); err != nil {
			fatal("%v", err)
		}

	case "rm":
		if len(os.Args) < 3 {
			fatal("Usage: todo rm <id>")
		}
		id := resolveID(st.State(), os.Args[2])
		if _, err := st.Dispatch(store.DeleteTask(id)); err != nil {
			fatal("%v", err)
		}

	case "clear":
		before := len(st.State().Tasks)
		next, err := st.Dispatch(store.ClearCompleted())
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("cleared %d completed task(s)\n", before-len(next.Tasks))

	case "filter":
		if len(os.Args) < 3 {
			fatal("Usage: todo filter <all|active|completed>")
		}
		if _, err := st.Dispatch(store.SetFilter(task.Filter(os.Args[2]))); err != nil {
			fatal("%v", err)
		}

	case "status":
		state := st.State()
		done := 0
		for _, tk := range state.Tasks {
			if tk.Completed {
				done++
			}
		}
		fmt.Printf("tasks: %d total, %d active, %d completed; filter: %s\n",
			len(state.Tasks), len(state.Tasks)-done, done, state.Filter)

	case "dump":
		printJSON(st.State())

	case "init":
		if err := snap.EnsureSchema(ctx); err != nil {
			fatal("init: %v", err)
		}
		fmt.Println("snapshot store initialized")

	default:
		usage()
		os.Exit(1)
	}
}

// openSnapshot picks the backend from the environment: Postgres when
// DATABASE_URL is set, else SQLite when SQLITE_PATH is set, else a JSON
// file at STATE_PATH (default ~/.todo/tasks.json).
func openSnapshot(ctx context.Context) (snapshot.Store, func()) {
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.Connect(ctx)
		if err != nil {
			fatal("connect: %v", err)
		}
		pg := snapshot.NewPgStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			fatal("ensure schema: %v", err)
		}
		return pg, pool.Close
	}

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		s, err := snapshot.OpenSQLiteStore(path)
		if err != nil {
			fatal("open sqlite: %v", err)
		}
		return s, func() { s.Close() }
	}

	path := os.Getenv("STATE_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fatal("home dir: %v", err)
		}
		path = home + "/.todo/tasks.json"
	}
	fs := snapshot.NewFileStore(path)
	if err := fs.EnsureSchema(ctx); err != nil {
		fatal("ensure snapshot dir: %v", err)
	}
	return fs, func() {}
}

// resolveID expands a unique id prefix to the full task id, so short ids
// from ls output are usable directly.
func resolveID(st task.State, prefix string) string {
	var match string
	for _, tk := range st.Tasks {
		if !strings.HasPrefix(tk.ID, prefix) {
			continue
		}
		if match != "" {
			fatal("id prefix %q is ambiguous", prefix)
		}
		match = tk.ID
	}
	if match == "" {
		fatal("no task with id %q", prefix)
	}
	return match
}

func parseFlags(args []string) map[string]string {
	flags := make(map[string]string)
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if idx := strings.Index(arg, "="); idx >= 0 {
			flags[arg[:idx]] = arg[idx+1:]
		} else {
			flags[arg] = ""
		}
	}
	return flags
}

func printShortTasks(tasks []task.Task) {
	for _, tk := range tasks {
		mark := " "
		if tk.Completed {
			mark = "x"
		}
		fmt.Printf("%-8s  [%s]  %s\n", truncStr(tk.ID, 8), mark, tk.Text)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("encode JSON: %v", err)
	}
}

func truncStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "todo: "+format+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: todo <command>

Commands:
  add <text>       Add a task
  ls [--filter=f]  List tasks (f: all, active, completed)
  toggle <id>      Toggle a task's completed flag
  edit <id> <text> Replace a task's text
  rm <id>          Delete a task
  clear            Delete all completed tasks
  filter <f>       Set the stored filter (all, active, completed)
  status           Show task counts and the active filter
  dump             Print the full state as JSON
  init             Initialize the snapshot backend

Backend selection (environment):
  DATABASE_URL     PostgreSQL
  SQLITE_PATH      embedded SQLite file
  STATE_PATH       JSON file (default ~/.todo/tasks.json)`)
}
