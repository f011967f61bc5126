// Package refresh keeps computed views current. Fetches are tagged with
// monotonic tokens so a slow fetch can never overwrite a newer result, and
// results are swapped in whole.
package refresh

import (
	"sync"
	"sync/atomic"
	"time"
)

// Token identifies one fetch. Higher tokens were issued later.
type Token uint64

// Sequencer issues tokens and admits only results carrying the latest one.
type Sequencer struct {
	mu     sync.Mutex
	latest Token
}

// Begin issues a new token. Any token issued earlier becomes stale.
func (s *Sequencer) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Latest returns the most recently issued token.
func (s *Sequencer) Latest() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Commit runs apply if t is still the latest token and reports whether it ran.
// apply runs under the sequencer lock so no newer Begin can interleave.
func (s *Sequencer) Commit(t Token, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return false
	}
	if apply != nil {
		apply()
	}
	return true
}

// Value is one computed view and the time its fetch completed.
type Value[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}

// Snapshot holds the latest Value. It is replaced whole, never merged.
type Snapshot[T any] struct {
	p atomic.Pointer[Value[T]]
}

// Store replaces the current value.
func (s *Snapshot[T]) Store(v Value[T]) { s.p.Store(&v) }

// Load returns the current value and false when nothing was stored yet.
func (s *Snapshot[T]) Load() (Value[T], bool) {
	v := s.p.Load()
	if v == nil {
		var zero Value[T]
		return zero, false
	}
	return *v, true
}
