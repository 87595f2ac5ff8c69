package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"taskstore/pkg/task"
)

// handleStateStream pushes the full state over SSE: the current state
// immediately, then one event per successful dispatch. Slow clients are
// skipped rather than allowed to stall dispatches.
func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, 500, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := make(chan task.State, 8)
	token := s.store.Subscribe(func(st task.State) {
		select {
		case ch <- st:
		default:
			// client is behind; drop so dispatch never blocks on it
		}
	})
	defer s.store.Unsubscribe(token)

	writeSSE(w, s.store.State())
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-ch:
			writeSSE(w, st)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, st task.State) {
	fmt.Fprintf(w, "data: ")
	json.NewEncoder(w).Encode(st)
	fmt.Fprintf(w, "\n\n")
}
