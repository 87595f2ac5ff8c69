package task

import "testing"

func TestParseFilter(t *testing.T) {
	for _, raw := range []string{"all", "active", "completed"} {
		f, err := ParseFilter(raw)
		if err != nil {
			t.Fatalf("ParseFilter(%q): unexpected error: %v", raw, err)
		}
		if string(f) != raw {
			t.Errorf("ParseFilter(%q): want %q, got %q", raw, raw, f)
		}
	}

	for _, raw := range []string{"", "done", "ALL", "active "} {
		if _, err := ParseFilter(raw); err == nil {
			t.Errorf("ParseFilter(%q): expected error, got none", raw)
		}
	}
}

func TestFilterMatches(t *testing.T) {
	active := Task{ID: "a", Text: "A"}
	done := Task{ID: "b", Text: "B", Completed: true}

	if !FilterAll.Matches(active) || !FilterAll.Matches(done) {
		t.Error("all should match every task")
	}
	if !FilterActive.Matches(active) || FilterActive.Matches(done) {
		t.Error("active should match only incomplete tasks")
	}
	if FilterCompleted.Matches(active) || !FilterCompleted.Matches(done) {
		t.Error("completed should match only completed tasks")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	st := State{
		Tasks:  []Task{{ID: "a", Text: "A"}},
		Filter: FilterAll,
	}
	cp := st.Clone()
	cp.Tasks[0].Completed = true

	if st.Tasks[0].Completed {
		t.Error("mutating the clone changed the original task slice")
	}
}

func TestTrimText(t *testing.T) {
	if got, ok := TrimText("  Buy milk  "); !ok || got != "Buy milk" {
		t.Errorf("TrimText: want (%q, true), got (%q, %v)", "Buy milk", got, ok)
	}
	if _, ok := TrimText("   "); ok {
		t.Error("whitespace-only text should not be usable")
	}
	if _, ok := TrimText(""); ok {
		t.Error("empty text should not be usable")
	}
}
