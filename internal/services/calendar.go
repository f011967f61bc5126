package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

// Calendar entry kinds.
const (
	EntryService = "service"
	EntryEvent   = "event"
)

// ServiceSlot is the length given to a service on the calendar.
const ServiceSlot = time.Hour

var statusColors = map[models.ServiceStatus]string{
	models.ServiceStatusPending:    "#f59e0b",
	models.ServiceStatusConfirmed:  "#3b82f6",
	models.ServiceStatusInProgress: "#8b5cf6",
	models.ServiceStatusDone:       "#10b981",
	models.ServiceStatusCancelled:  "#9ca3af",
	models.ServiceStatusPostponed:  "#ef4444",
}

// CalendarEntry is one item on the calendar: a scheduled service or a
// user-created event.
type CalendarEntry struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	AllDay     bool      `json:"all_day"`
	Color      string    `json:"color,omitempty"`
	Status     string    `json:"status,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	ServiceID  uint      `json:"service_id,omitempty"`
}

// CalendarView is the calendar for one window of days.
type CalendarView struct {
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Entries []CalendarEntry `json:"entries"`
}

// GridDay is one cell of the printable month grid. Days outside the window
// have a zero Day.
type GridDay struct {
	Day     time.Time
	Entries []CalendarEntry
}

// EventInput is the payload of a user-created calendar event.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartAt     Date   `json:"start_at"`
	EndAt       Date   `json:"end_at"`
	AllDay      bool   `json:"all_day"`
	Color       string `json:"color"`
}

type CalendarService struct{ Deps }

func NewCalendarService(d Deps) *CalendarService { return &CalendarService{d} }

// DefaultWindow is the month containing now.
func (s *CalendarService) DefaultWindow() finance.DateRange {
	return finance.MonthRange(s.now())
}

// Window merges services and custom events starting inside rng, ordered by
// start time. stale reports that part of it came from a fallback copy.
func (s *CalendarService) Window(ctx context.Context, rng finance.DateRange) (CalendarView, bool) {
	if rng.IsZero() {
		rng = s.DefaultWindow()
	}
	if rng.Location == nil {
		rng.Location = s.loc()
	}
	// A one-sided window spans the month of its given side.
	switch {
	case rng.Start.IsZero():
		rng.Start = finance.MonthRange(rng.End.In(rng.Location)).Start
	case rng.End.IsZero():
		rng.End = finance.MonthRange(rng.Start.In(rng.Location)).End
	}
	services := cachedList(ctx, s.Fallback, fallback.KeyServices, true, store.ServiceFilter{Range: rng}.Match,
		nil,
		func(ctx context.Context) ([]models.Service, error) {
			return s.Repo.Services.List(ctx, store.ServiceFilter{Range: rng})
		},
	)
	events, eventsStale := fallback.List(ctx, s.Fallback, fallback.KeyCalendarCustomEvents,
		func(ctx context.Context) ([]models.CalendarEvent, error) {
			return s.Repo.Events.List(ctx, finance.DateRange{})
		})

	entries := make([]CalendarEntry, 0, len(services.Items)+len(events))
	for _, svc := range services.Items {
		entries = append(entries, serviceEntry(svc))
	}
	for _, e := range events {
		if !rng.Contains(e.StartAt) {
			continue
		}
		entries = append(entries, CalendarEntry{
			ID:     e.ID,
			Kind:   EntryEvent,
			Title:  e.Title,
			Start:  e.StartAt,
			End:    e.EndAt,
			AllDay: e.AllDay,
			Color:  e.Color,
		})
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].Start.Before(entries[b].Start) })

	from, _ := rng.Bounds()
	to := finance.Day(rng.End, rng.Location)
	return CalendarView{From: from, To: to, Entries: entries}, services.Stale || eventsStale
}

// Fetch computes the default window; it is the calendar poller's fetch.
func (s *CalendarService) Fetch(ctx context.Context) (CalendarView, bool, error) {
	v, stale := s.Window(ctx, finance.DateRange{})
	return v, stale, ctx.Err()
}

func serviceEntry(svc models.Service) CalendarEntry {
	title := svc.Type
	if svc.ClientName != "" {
		title += " - " + svc.ClientName
	}
	return CalendarEntry{
		ID:         fmt.Sprintf("service-%d", svc.ID),
		Kind:       EntryService,
		Title:      title,
		Start:      svc.ScheduledAt,
		End:        svc.ScheduledAt.Add(ServiceSlot),
		Color:      statusColors[svc.Status],
		Status:     string(svc.Status),
		ClientName: svc.ClientName,
		ServiceID:  svc.ID,
	}
}

// Grid lays the view out in Monday-first weeks for printing.
func Grid(v CalendarView) [][]GridDay {
	if v.From.IsZero() || v.To.IsZero() || v.To.Before(v.From) {
		return nil
	}
	loc := v.From.Location()
	byDay := map[time.Time][]CalendarEntry{}
	for _, e := range v.Entries {
		d := finance.Day(e.Start, loc)
		byDay[d] = append(byDay[d], e)
	}
	start := finance.Day(v.From, loc)
	offset := (int(start.Weekday()) + 6) % 7
	cur := start.AddDate(0, 0, -offset)
	end := finance.Day(v.To, loc)

	var weeks [][]GridDay
	for !cur.After(end) {
		week := make([]GridDay, 7)
		for i := range week {
			if !cur.Before(start) && !cur.After(end) {
				week[i] = GridDay{Day: cur, Entries: byDay[cur]}
			}
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func (s *CalendarService) CreateEvent(ctx context.Context, in EventInput) (*models.CalendarEvent, error) {
	in.StartAt = in.StartAt.In(s.loc())
	in.EndAt = in.EndAt.In(s.loc())
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	if len(in.Title) > 255 {
		v["title"] = "too_long"
	}
	switch {
	case in.StartAt.Invalid:
		v["start_at"] = "invalid_date"
	case !in.StartAt.Set:
		v["start_at"] = "required"
	}
	if in.EndAt.Invalid {
		v["end_at"] = "invalid_date"
	} else if in.EndAt.Set && in.StartAt.Set && in.EndAt.Time.Before(in.StartAt.Time) {
		v["end_at"] = "before_start"
	}
	if len(in.Color) > 20 {
		v["color"] = "too_long"
	}
	if err := httpx.Invalid(v); err != nil {
		return nil, err
	}
	e := &models.CalendarEvent{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartAt:     in.StartAt.Time,
		AllDay:      in.AllDay,
		Color:       in.Color,
	}
	if in.EndAt.Set {
		e.EndAt = in.EndAt.Time
	}
	if e.AllDay {
		e.StartAt = finance.Day(e.StartAt, s.loc())
		e.EndAt = e.StartAt.AddDate(0, 0, 1)
	} else if e.EndAt.IsZero() {
		e.EndAt = e.StartAt.Add(ServiceSlot)
	}
	if err := s.Repo.Events.Create(ctx, e); err != nil {
		logWrite("CalendarService.CreateEvent", "create calendar event", e.Title, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationEvents, feed.OpInsert, e.ID)
	return e, nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.Repo.Events.Delete(ctx, id); err != nil {
		logWrite("CalendarService.DeleteEvent", "delete calendar event", id, err)
		return err
	}
	s.notify(ctx, feed.RelationEvents, feed.OpDelete, id)
	return nil
}
