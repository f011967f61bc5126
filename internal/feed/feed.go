// Package feed carries change notifications for Record Store relations.
// Services publish after each successful write; views subscribe to refresh.
package feed

import (
	"context"
	"time"
)

// Op is the kind of write that produced an event.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Relation names, matching the table names.
const (
	RelationClients  = "clients"
	RelationServices = "prestations"
	RelationInvoices = "factures"
	RelationVehicles = "vehicules"
	RelationEmployee = "employees"
	RelationEvents   = "calendar_events"
)

// Event describes one committed write.
type Event struct {
	Relation string    `json:"relation"`
	Op       Op        `json:"op"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}

// Broker fans out change events. The returned cancel func ends the
// subscription and closes the channel.
type Broker interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context, relation string) (<-chan Event, func())
	Close() error
}

// Signals adapts an event channel to the trigger channel a poller listens on.
// Bursts collapse into one pending signal.
func Signals(events <-chan Event) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range events {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}
