// Package services holds the application operations behind the HTTP
// handlers: validate, persist through the store, publish a change event.
// Read paths never fail: they fall back to a stored copy or an empty list.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/httpx"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Repo     *store.Repository
	Broker   feed.Broker
	Fallback fallback.Store
	Now      func() time.Time
	Location *time.Location
}

func (d Deps) now() time.Time {
	t := time.Now()
	if d.Now != nil {
		t = d.Now()
	}
	if d.Location != nil {
		t = t.In(d.Location)
	}
	return t
}

func (d Deps) loc() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// notify publishes a change event. A failed publish is logged and does not
// fail the write that caused it.
func (d Deps) notify(ctx context.Context, relation string, op feed.Op, id any) {
	if d.Broker == nil {
		return
	}
	e := feed.Event{Relation: relation, Op: op, ID: fmt.Sprint(id), At: d.now()}
	if err := d.Broker.Publish(ctx, e); err != nil {
		logging.LogError(logging.Get(), "services", "notify", "publish change event", e, err)
	}
}

// ListResult is a list read. Stale is set when the items come from the
// fallback copy (or are empty) because the Record Store could not answer.
type ListResult[T any] struct {
	Items []T  `json:"items"`
	Stale bool `json:"stale"`
}

// cachedList reads all items through the fallback copy at key. With a filter,
// the primary is queried with it and, on failure, the copy is filtered in
// memory.
func cachedList[T any](
	ctx context.Context,
	fb fallback.Store,
	key string,
	filtered bool,
	match func(*T) bool,
	all func(context.Context) ([]T, error),
	some func(context.Context) ([]T, error),
) ListResult[T] {
	if !filtered {
		items, stale := fallback.List(ctx, fb, key, all)
		return ListResult[T]{Items: items, Stale: stale}
	}
	items, err := some(ctx)
	if err == nil {
		return ListResult[T]{Items: items}
	}
	copyItems, _ := fallback.List(ctx, fb, key, func(context.Context) ([]T, error) { return nil, err })
	out := make([]T, 0, len(copyItems))
	for i := range copyItems {
		if match(&copyItems[i]) {
			out = append(out, copyItems[i])
		}
	}
	return ListResult[T]{Items: out, Stale: true}
}

// logWrite records a failed write. Validation and lookup failures are the
// caller's problem and are not logged as errors.
func logWrite(funcName, action string, data any, err error) {
	var ve *httpx.ValidationError
	if errors.As(err, &ve) || errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrClientInUse) {
		return
	}
	logging.LogError(logging.Get(), "services", funcName, action, data, err)
}

// Services bundles every application service over one set of Deps.
type Services struct {
	Clients   *ClientService
	Services  *ServiceService
	Invoices  *InvoiceService
	Fleet     *FleetService
	Calendar  *CalendarService
	Dashboard *DashboardService
	Reports   *ReportService
	Auth      *AuthService
}

// New builds every service.
func New(d Deps) *Services {
	return &Services{
		Clients:   NewClientService(d),
		Services:  NewServiceService(d),
		Invoices:  NewInvoiceService(d),
		Fleet:     NewFleetService(d),
		Calendar:  NewCalendarService(d),
		Dashboard: NewDashboardService(d),
		Reports:   NewReportService(d),
		Auth:      NewAuthService(d),
	}
}
