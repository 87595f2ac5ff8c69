package store

import "fmt"

// ValidationError reports an action payload that violates a documented
// constraint (empty text, unrecognized filter). The dispatch fails and
// state is unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid action: " + e.Reason
}

// UnknownActionError reports an action kind the reducer does not
// recognize. Unrecognized actions are a hard failure, never silently
// ignored.
type UnknownActionError struct {
	Kind string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action kind %q", e.Kind)
}
