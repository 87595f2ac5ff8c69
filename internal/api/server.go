// Package api exposes the task store over HTTP: actions in, state and
// filtered views out. It is a thin boundary; all semantics live in
// pkg/store.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"taskstore/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	store *store.Store
	mux   *http.ServeMux
}

// New creates a new Server around st.
func New(st *store.Store) *Server {
	s := &Server{
		store: st,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Tasks
	s.mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	s.mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	s.mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleTaskToggle)
	s.mux.HandleFunc("PATCH /api/tasks/{id}", s.handleTaskEdit)
	s.mux.HandleFunc("DELETE /api/tasks/completed", s.handleClearCompleted)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)

	// State
	s.mux.HandleFunc("GET /api/state", s.handleStateGet)
	s.mux.HandleFunc("GET /api/state/stream", s.handleStateStream)
	s.mux.HandleFunc("PUT /api/filter", s.handleFilterSet)

	// System
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// dispatch runs a through the store and maps reducer failures onto HTTP
// status codes: validation and unknown-kind errors are the caller's
// fault (400), anything else is ours (500).
func (s *Server) dispatch(w http.ResponseWriter, a store.Action) bool {
	_, err := s.store.Dispatch(a)
	if err == nil {
		return true
	}
	s.writeDispatchError(w, err)
	return false
}

func (s *Server) writeDispatchError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError
	var uerr *store.UnknownActionError
	if errors.As(err, &verr) || errors.As(err, &uerr) {
		writeError(w, 400, err.Error())
	} else {
		writeError(w, 500, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write json: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
