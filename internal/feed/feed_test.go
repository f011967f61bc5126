package feed

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestMemory_PublishSubscribe(t *testing.T) {
	b := NewMemory()
	defer b.Close()

	services, cancel := b.Subscribe(context.Background(), RelationServices)
	defer cancel()
	invoices, cancelInv := b.Subscribe(context.Background(), RelationInvoices)
	defer cancelInv()

	if err := b.Publish(context.Background(), Event{Relation: RelationServices, Op: OpInsert, ID: "7"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	e := recv(t, services)
	if e.Op != OpInsert || e.ID != "7" || e.At.IsZero() {
		t.Errorf("unexpected event %+v", e)
	}
	select {
	case e := <-invoices:
		t.Errorf("invoice subscriber got %+v", e)
	default:
	}
}

func TestMemory_CancelClosesChannel(t *testing.T) {
	b := NewMemory()
	ch, cancel := b.Subscribe(context.Background(), RelationClients)
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after cancel")
	}
	if err := b.Publish(context.Background(), Event{Relation: RelationClients}); err != nil {
		t.Fatalf("Publish after cancel: %v", err)
	}
}

func TestMemory_CancelReleasesWatcher(t *testing.T) {
	m := NewMemory()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	base := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		_, cancel := m.Subscribe(ctx, RelationServices)
		cancel()
	}
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > base+5 {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d, want about %d after cancel", runtime.NumGoroutine(), base)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if n := len(m.subs[RelationServices]); n != 0 {
		t.Fatalf("subscribers = %d, want 0", n)
	}
}

func TestMemory_ContextEndsSubscription(t *testing.T) {
	b := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx, RelationVehicles)
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected event")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestMemory_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewMemory()
	_, cancel := b.Subscribe(context.Background(), RelationServices)
	defer cancel()
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			_ = b.Publish(context.Background(), Event{Relation: RelationServices})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full subscriber")
	}
}

func TestSignals_Coalesce(t *testing.T) {
	events := make(chan Event, 3)
	events <- Event{}
	events <- Event{}
	events <- Event{}
	close(events)
	sig := Signals(events)
	n := 0
	for range sig {
		n++
	}
	if n < 1 || n > 3 {
		t.Errorf("got %d signals", n)
	}
}

func TestChannel(t *testing.T) {
	if got := Channel(RelationServices); got != "changes:prestations" {
		t.Errorf("Channel = %q", got)
	}
}
