// Package store implements a single-writer, multi-reader reactive state
// container: actions dispatched into it are applied by a pure reducer,
// subscribers are notified of every new state, and each new state is
// persisted in the background through a snapshot backend.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"taskstore/pkg/snapshot"
	"taskstore/pkg/task"
)

const saveTimeout = 5 * time.Second

// Listener receives the new state after every successful dispatch.
// Listeners run on the dispatching goroutine and must not call Dispatch.
type Listener func(st task.State)

type listenerEntry struct {
	token int
	fn    Listener
}

// Store owns the canonical state. All mutation goes through Dispatch,
// which is strictly serialized; reads never block behind persistence or
// listener callbacks.
type Store struct {
	reduce *Reducer
	snap   snapshot.Store // nil = memory-only

	// dispatchMu serializes reducer application and listener
	// notification, so no two dispatches ever interleave.
	dispatchMu sync.Mutex

	// stateMu guards the state value swap and the listener registry.
	// Held only for bounded, non-blocking sections.
	stateMu   sync.RWMutex
	state     task.State
	listeners []listenerEntry
	nextToken int
	onSaveErr func(error)

	// saveCh is a one-slot coalescing channel into the saver goroutine:
	// a newer state displaces a not-yet-saved older one, so saves are
	// last-write-wins by dispatch order.
	saveCh chan task.State
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// New creates a Store seeded from snap's saved snapshot. A missing
// snapshot starts the store empty; a snapshot that fails to load is
// logged and likewise falls back to empty, never a startup failure.
// snap may be nil for a memory-only store.
func New(ctx context.Context, r *Reducer, snap snapshot.Store) *Store {
	s := &Store{
		reduce: r,
		snap:   snap,
		state:  task.NewState(),
		saveCh: make(chan task.State, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	if snap != nil {
		st, err := snap.Load(ctx)
		switch {
		case err != nil:
			log.Printf("store: load snapshot: %v (starting empty)", err)
		case st != nil:
			s.state = *st
		}
		go s.saver()
	} else {
		close(s.done)
	}
	return s
}

// Dispatch applies a to the current state. Dispatches are strictly
// ordered: no two reducer applications ever run concurrently. On success
// the new state is returned, listeners are notified in registration
// order, and a background save is requested. On failure the state is
// unchanged and the reducer's error is returned.
func (s *Store) Dispatch(a Action) (task.State, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next, err := s.reduce.Apply(s.state, a)
	if err != nil {
		return s.state, err
	}

	s.stateMu.Lock()
	s.state = next
	ls := make([]listenerEntry, len(s.listeners))
	copy(ls, s.listeners)
	s.stateMu.Unlock()

	if s.snap != nil {
		s.enqueueSave(next)
	}

	for _, l := range ls {
		s.notify(l, next)
	}
	return next, nil
}

// State returns the current canonical state. The returned value is a
// read-only snapshot: dispatches replace state wholesale, so it never
// changes underneath the caller.
func (s *Store) State() task.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called after every successful dispatch
// and returns a token for Unsubscribe. Listeners are notified in
// registration order; a panicking listener is recovered and logged
// without affecting the others or the store.
func (s *Store) Subscribe(fn Listener) int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.nextToken++
	s.listeners = append(s.listeners, listenerEntry{token: s.nextToken, fn: fn})
	return s.nextToken
}

// Unsubscribe removes the listener registered under token. Unknown
// tokens are a no-op.
func (s *Store) Unsubscribe(token int) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	for i, l := range s.listeners {
		if l.token == token {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// OnSaveError registers a single observer for background save failures.
// Save failures never roll back in-memory state; the next dispatch's
// save retries implicitly.
func (s *Store) OnSaveError(fn func(error)) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.onSaveErr = fn
}

// Close stops the background saver after flushing any pending snapshot.
// Dispatch must not be called after Close.
func (s *Store) Close() {
	s.once.Do(func() {
		if s.snap != nil {
			close(s.quit)
		}
		<-s.done
	})
}

func (s *Store) notify(l listenerEntry, st task.State) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("store: listener %d panic: %v", l.token, r)
		}
	}()
	l.fn(st)
}

func (s *Store) enqueueSave(st task.State) {
	for {
		select {
		case s.saveCh <- st:
			return
		default:
		}
		// slot full: drop the stale pending state and retry
		select {
		case <-s.saveCh:
		default:
		}
	}
}

func (s *Store) saver() {
	defer close(s.done)
	for {
		select {
		case st := <-s.saveCh:
			s.save(st)
		case <-s.quit:
			// flush whatever was still pending before exiting
			select {
			case st := <-s.saveCh:
				s.save(st)
			default:
			}
			return
		}
	}
}

func (s *Store) save(st task.State) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.snap.Save(ctx, st); err != nil {
		log.Printf("store: save snapshot: %v", err)
		s.stateMu.RLock()
		fn := s.onSaveErr
		s.stateMu.RUnlock()
		if fn != nil {
			fn(err)
		}
	}
}
