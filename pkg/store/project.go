package store

import "taskstore/pkg/task"

// Project returns the ordered subsequence of st.Tasks visible under
// st.Filter. Pure: it never mutates st and always allocates a fresh
// slice, so callers may do what they like with the result.
func Project(st task.State) []task.Task {
	out := make([]task.Task, 0, len(st.Tasks))
	for _, t := range st.Tasks {
		if st.Filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
