package feed

import (
	"context"
	"sync"
	"time"
)

const subscriberBuffer = 16

// Memory is an in-process Broker. A slow subscriber drops events rather than
// blocking publishers.
type Memory struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan Event
	next   int
	closed bool
}

// NewMemory creates an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]chan Event)}
}

// Publish delivers e to every current subscriber of e.Relation.
func (m *Memory) Publish(_ context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs[e.Relation] {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for relation. The subscription ends when
// ctx is done or the cancel func is called.
func (m *Memory) Subscribe(ctx context.Context, relation string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := m.next
	m.next++
	if m.subs[relation] == nil {
		m.subs[relation] = make(map[int]chan Event)
	}
	m.subs[relation][id] = ch
	m.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[relation][id]; ok {
				delete(m.subs[relation], id)
				close(c)
			}
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return ch, cancel
}

// Close ends every subscription.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for rel, subs := range m.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(m.subs, rel)
	}
	return nil
}
