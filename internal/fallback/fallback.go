// Package fallback keeps secondary copies of entity lists so read paths can
// still answer when the Record Store is unreachable.
//
// Precedence: the primary is always tried first and a successful read
// overwrites the copy. The copy is served, flagged stale, only when the primary
// fails. When both fail the result is an empty list.
package fallback

import (
	"context"

	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/sirupsen/logrus"
)

// Keys of the fallback copies.
const (
	KeyClients              = "clients"
	KeyEmployees            = "employees"
	KeyVehicles             = "vehicles"
	KeyServices             = "services"
	KeyInvoices             = "invoices"
	KeyCalendarCustomEvents = "calendarCustomEvents"
)

// Store persists JSON copies of values by key.
type Store interface {
	// Put overwrites the copy at key.
	Put(ctx context.Context, key string, v any) error
	// Get decodes the copy at key into dest. found is false when no copy exists.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
}

// List reads through primary, refreshing the copy at key on success and
// falling back to it on failure. stale reports that items did not come from
// primary. A nil store disables the copy.
func List[T any](ctx context.Context, s Store, key string, primary func(context.Context) ([]T, error)) (items []T, stale bool) {
	log := logging.Get().WithFields(logrus.Fields{"module": "fallback", "key": key})

	items, err := primary(ctx)
	if err == nil {
		if items == nil {
			items = []T{}
		}
		if s != nil {
			if perr := s.Put(ctx, key, items); perr != nil {
				log.WithError(perr).Warn("could not refresh fallback copy")
			}
		}
		return items, false
	}
	log.WithError(err).Warn("primary read failed, using fallback copy")

	if s == nil {
		return []T{}, true
	}
	var cached []T
	found, gerr := s.Get(ctx, key, &cached)
	if gerr != nil {
		log.WithError(gerr).Error("fallback copy unreadable")
		return []T{}, true
	}
	if !found || cached == nil {
		return []T{}, true
	}
	return cached, true
}
