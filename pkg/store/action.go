package store

import "taskstore/pkg/task"

// Action kinds understood by the reducer.
const (
	KindAddTask        = "task.add"
	KindToggleTask     = "task.toggle"
	KindEditTask       = "task.edit"
	KindDeleteTask     = "task.delete"
	KindClearCompleted = "task.clear_completed"
	KindSetFilter      = "filter.set"
)

// Action is a tagged request to change state: a kind plus the payload
// fields that kind uses.
type Action struct {
	Kind   string      `json:"kind"`
	Text   string      `json:"text,omitempty"`
	ID     string      `json:"id,omitempty"`
	Filter task.Filter `json:"filter,omitempty"`
}

// AddTask appends a new incomplete task with the given text.
func AddTask(text string) Action {
	return Action{Kind: KindAddTask, Text: text}
}

// ToggleTask flips the completed flag of the task with the given id.
// Unknown ids are a silent no-op.
func ToggleTask(id string) Action {
	return Action{Kind: KindToggleTask, ID: id}
}

// EditTask replaces the text of the task with the given id. Unknown ids
// are a silent no-op.
func EditTask(id, text string) Action {
	return Action{Kind: KindEditTask, ID: id, Text: text}
}

// DeleteTask removes the task with the given id. Unknown ids are a
// silent no-op.
func DeleteTask(id string) Action {
	return Action{Kind: KindDeleteTask, ID: id}
}

// ClearCompleted removes every completed task, keeping the remaining
// tasks in their original order.
func ClearCompleted() Action {
	return Action{Kind: KindClearCompleted}
}

// SetFilter replaces the active filter.
func SetFilter(f task.Filter) Action {
	return Action{Kind: KindSetFilter, Filter: f}
}
