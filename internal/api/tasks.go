package api

import (
	"encoding/json"
	"net/http"

	"taskstore/pkg/store"
	"taskstore/pkg/task"
)

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	st := s.store.State()

	// ?filter= overrides the store's active filter for this view only.
	if raw := r.URL.Query().Get("filter"); raw != "" {
		f, err := task.ParseFilter(raw)
		if err != nil {
			writeError(w, 400, err.Error())
			return
		}
		st.Filter = f
	}

	writeJSON(w, 200, store.Project(st))
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}

	st, err := s.store.Dispatch(store.AddTask(req.Text))
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}
	// AddTask appends, so the created task is the last one.
	writeJSON(w, 201, st.Tasks[len(st.Tasks)-1])
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.dispatch(w, store.ToggleTask(id)) {
		return
	}
	writeJSON(w, 200, s.store.State())
}

func (s *Server) handleTaskEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if !s.dispatch(w, store.EditTask(id, req.Text)) {
		return
	}
	writeJSON(w, 200, s.store.State())
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.dispatch(w, store.DeleteTask(id)) {
		return
	}
	w.WriteHeader(204)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	if !s.dispatch(w, store.ClearCompleted()) {
		return
	}
	writeJSON(w, 200, s.store.State())
}

func (s *Server) handleStateGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, s.store.State())
}

func (s *Server) handleFilterSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	if !s.dispatch(w, store.SetFilter(task.Filter(req.Filter))) {
		return
	}
	writeJSON(w, 200, s.store.State())
}
