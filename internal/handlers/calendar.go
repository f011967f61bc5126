package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/refresh"
	"github.com/diewo77/go-demenagement/internal/services"
)

// CalendarHandler serves the merged calendar. The default window is read from
// the poller's snapshot; explicit windows are computed per request.
type CalendarHandler struct {
	svc      *services.CalendarService
	snapshot *refresh.Snapshot[services.CalendarView]
	loc      *time.Location
	company  string
}

func NewCalendarHandler(svc *services.CalendarService, snapshot *refresh.Snapshot[services.CalendarView], loc *time.Location, company string) *CalendarHandler {
	return &CalendarHandler{svc: svc, snapshot: snapshot, loc: loc, company: company}
}

func (h *CalendarHandler) view(r *http.Request, rng finance.DateRange) refresh.Value[services.CalendarView] {
	if rng.IsZero() && h.snapshot != nil {
		if v, ok := h.snapshot.Load(); ok {
			return v
		}
	}
	v, stale := h.svc.Window(r.Context(), rng)
	return refresh.Value[services.CalendarView]{Data: v, FetchedAt: time.Now(), Stale: stale}
}

// Calendar answers the entries between from and to (the current month by
// default).
func (h *CalendarHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "calendar")
		return
	}
	v := h.view(r, rng)
	markStale(w, v.Stale)
	httpx.JSON(w, http.StatusOK, v)
}

// Print renders the window as a month grid plus an entry list.
func (h *CalendarHandler) Print(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "print_calendar")
		return
	}
	v := h.view(r, rng).Data
	renderHTML(w, "calendar.html", map[string]any{
		"From":    v.From,
		"To":      v.To,
		"Weeks":   services.Grid(v),
		"Entries": v.Entries,
		"Company": h.company,
	}, "CalendarHandler.Print")
}

func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in services.EventInput
	if !decode(w, r, &in) {
		return
	}
	e, err := h.svc.CreateEvent(r.Context(), in)
	if err != nil {
		httpx.Error(w, err, "create_event")
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
