package task

import (
	"fmt"
	"strings"
)

// Task is a single entry in the list.
type Task struct {
	ID        string `json:"id"`   // assigned at creation, never reused
	Text      string `json:"text"` // non-empty display string
	Completed bool   `json:"completed"`
}

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter validates a raw filter value. Unrecognized values are
// rejected, never coerced.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unrecognized filter %q", s)
}

// Valid reports whether f is one of the three recognized filters.
func (f Filter) Valid() bool {
	_, err := ParseFilter(string(f))
	return err == nil
}

// Matches reports whether t is visible under f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// State is the full canonical state of a store: the ordered task list and
// the active filter. Values handed out by the store are read-only
// snapshots; state is only ever replaced wholesale, never edited in place.
type State struct {
	Tasks  []Task `json:"tasks"`
	Filter Filter `json:"filter"`
}

// NewState returns the empty default state.
func NewState() State {
	return State{Tasks: []Task{}, Filter: FilterAll}
}

// Clone returns a deep copy of st with its own task slice.
func (st State) Clone() State {
	cp := st
	cp.Tasks = make([]Task, len(st.Tasks))
	copy(cp.Tasks, st.Tasks)
	return cp
}

// TrimText normalizes task text for validation: surrounding whitespace is
// stripped and the result must be non-empty to be usable.
func TrimText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
