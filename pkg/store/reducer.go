package store

import (
	"github.com/google/uuid"

	"taskstore/pkg/task"
)

// Reducer computes the next state from the current state and an action.
// Apply is pure: it performs no I/O, never mutates its input, and is
// deterministic given a deterministic NewID.
type Reducer struct {
	// NewID generates task identifiers. Generated ids must be unique for
	// the lifetime of the state.
	NewID func() string
}

// NewReducer returns a Reducer using time-ordered UUIDs for task ids.
func NewReducer() *Reducer {
	return &Reducer{
		NewID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Apply returns the state resulting from a on st. On error the returned
// state is st unchanged. Toggle, edit and delete on an unknown id are
// silent no-ops; unrecognized kinds fail with UnknownActionError.
func (r *Reducer) Apply(st task.State, a Action) (task.State, error) {
	switch a.Kind {
	case KindAddTask:
		text, ok := task.TrimText(a.Text)
		if !ok {
			return st, &ValidationError{Reason: "task text must not be empty"}
		}
		next := st.Clone()
		next.Tasks = append(next.Tasks, task.Task{
			ID:   r.NewID(),
			Text: text,
		})
		return next, nil

	case KindToggleTask:
		for i := range st.Tasks {
			if st.Tasks[i].ID == a.ID {
				next := st.Clone()
				next.Tasks[i].Completed = !next.Tasks[i].Completed
				return next, nil
			}
		}
		return st, nil

	case KindEditTask:
		text, ok := task.TrimText(a.Text)
		if !ok {
			return st, &ValidationError{Reason: "task text must not be empty"}
		}
		for i := range st.Tasks {
			if st.Tasks[i].ID == a.ID {
				next := st.Clone()
				next.Tasks[i].Text = text
				return next, nil
			}
		}
		return st, nil

	case KindDeleteTask:
		for i := range st.Tasks {
			if st.Tasks[i].ID == a.ID {
				next := st
				next.Tasks = make([]task.Task, 0, len(st.Tasks)-1)
				next.Tasks = append(next.Tasks, st.Tasks[:i]...)
				next.Tasks = append(next.Tasks, st.Tasks[i+1:]...)
				return next, nil
			}
		}
		return st, nil

	case KindClearCompleted:
		next := st
		next.Tasks = make([]task.Task, 0, len(st.Tasks))
		for _, t := range st.Tasks {
			if !t.Completed {
				next.Tasks = append(next.Tasks, t)
			}
		}
		return next, nil

	case KindSetFilter:
		if !a.Filter.Valid() {
			return st, &ValidationError{Reason: "unrecognized filter " + string(a.Filter)}
		}
		next := st.Clone()
		next.Filter = a.Filter
		return next, nil
	}

	return st, &UnknownActionError{Kind: a.Kind}
}
