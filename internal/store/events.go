package store

import (
	"context"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
)

// EventRepo reads and writes user-created calendar events.
type EventRepo struct{ crud[models.CalendarEvent] }

// List returns the events starting inside rng, earliest first.
func (r *EventRepo) List(ctx context.Context, rng finance.DateRange) ([]models.CalendarEvent, error) {
	q := r.conn(ctx).Order("start_at ASC")
	from, until := rng.Bounds()
	if !from.IsZero() {
		q = q.Where("start_at >= ?", from)
	}
	if !until.IsZero() {
		q = q.Where("start_at < ?", until)
	}
	out := []models.CalendarEvent{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("calendar_events", err)
	}
	return out, nil
}

func (r *EventRepo) Get(ctx context.Context, id string) (*models.CalendarEvent, error) {
	return r.get(ctx, id)
}

func (r *EventRepo) Create(ctx context.Context, e *models.CalendarEvent) error {
	return r.create(ctx, e)
}

func (r *EventRepo) Update(ctx context.Context, e *models.CalendarEvent) error {
	return r.update(ctx, e.ID, e, func(old *models.CalendarEvent) { e.CreatedAt = old.CreatedAt })
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
