// Package state holds the console's durable client state: a generic
// persisted store plus the concrete session and theme state domains.
//
// Stores are created once per state domain at the application root and
// passed by reference to consumers; cross-instance sharing of a domain is
// not a supported configuration.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/resohub/console/internal/state/record"
)

// SaveResult reports the outcome of one background persistence attempt.
// Persistence is best-effort: failures are observed (logged by default) and
// never surfaced to the caller that triggered the write.
type SaveResult struct {
	Key string
	Err error
}

// Options tunes store construction.
type Options struct {
	// Observe receives the result of every persistence attempt and of the
	// hydration load. Defaults to logging failures.
	Observe func(SaveResult)
}

// Store is a typed state container with best-effort durability and a
// one-time rehydration signal.
//
// The persisted subset of T is declared through its JSON tags: fields
// marked `json:"-"` stay in memory only.
type Store[T any] struct {
	key      string
	records  record.Store
	defaults T
	observe  func(SaveResult)

	mu       sync.RWMutex
	current  T
	hydrated bool
	seq      uint64

	saveMu   sync.Mutex
	savedSeq uint64

	hydratedCh chan struct{}
	saves      sync.WaitGroup
}

// NewStore builds a store seeded with defaults and starts the one-time
// asynchronous load of previously persisted data. Reads before the load
// completes return defaults; IsHydrated distinguishes "not yet loaded"
// from "loaded and empty".
func NewStore[T any](ctx context.Context, records record.Store, key string, defaults T, opts Options) *Store[T] {
	observe := opts.Observe
	if observe == nil {
		observe = func(result SaveResult) {
			if result.Err != nil {
				log.Printf("state %s: persistence: %v", result.Key, result.Err)
			}
		}
	}

	s := &Store[T]{
		key:        key,
		records:    records,
		defaults:   defaults,
		observe:    observe,
		current:    defaults,
		hydratedCh: make(chan struct{}),
	}
	go s.hydrate(ctx)
	return s
}

// Get returns the current in-memory state. It never blocks on storage.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies mutate to the current state and schedules best-effort
// persistence of the declared subset. The caller never observes a
// persistence failure.
func (s *Store[T]) Update(mutate func(*T)) {
	if mutate == nil {
		return
	}
	s.mu.Lock()
	mutate(&s.current)
	snapshot := s.current
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		// A newer snapshot already reached storage; last write wins.
		if seq <= s.savedSeq {
			return
		}
		err := s.persist(snapshot)
		if err == nil {
			s.savedSeq = seq
		}
		s.observe(SaveResult{Key: s.key, Err: err})
	}()
}

// IsHydrated reports whether the one-time load from durable storage has
// completed. Once true it never returns false again for this instance.
func (s *Store[T]) IsHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Hydrated returns a channel closed when hydration completes.
func (s *Store[T]) Hydrated() <-chan struct{} {
	return s.hydratedCh
}

// Flush waits for pending persistence attempts to finish. Intended for
// graceful shutdown and tests.
func (s *Store[T]) Flush() {
	s.saves.Wait()
}

// hydrate loads the persisted record, merges it over defaults, and flips
// the hydration flag exactly once. A missing or corrupt record falls back
// to defaults.
func (s *Store[T]) hydrate(ctx context.Context) {
	loaded := s.defaults
	if s.records != nil {
		payload, err := s.records.Load(ctx, s.key)
		switch {
		case err == nil:
			if err := json.Unmarshal(payload, &loaded); err != nil {
				loaded = s.defaults
				s.observe(SaveResult{Key: s.key, Err: err})
			}
		case errors.Is(err, record.ErrNotFound):
			// First run; defaults stand.
		default:
			s.observe(SaveResult{Key: s.key, Err: err})
		}
	}

	s.mu.Lock()
	if !s.hydrated {
		s.current = loaded
		s.hydrated = true
		close(s.hydratedCh)
	}
	s.mu.Unlock()
}

func (s *Store[T]) persist(snapshot T) error {
	if s.records == nil {
		return nil
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.records.Save(context.Background(), s.key, payload)
}
