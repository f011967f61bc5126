package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/db"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	svc    *Services
	repo   *store.Repository
	broker *feed.Memory
	fb     *fallback.Memory
	gdb    *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatal(err)
	}
	h := &harness{repo: store.New(gdb), broker: feed.NewMemory(), fb: fallback.NewMemory(), gdb: gdb}
	t.Cleanup(func() {
		h.broker.Close()
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	h.svc = New(Deps{
		Repo:     h.repo,
		Broker:   h.broker,
		Fallback: h.fb,
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	})
	return h
}

// closeDB makes every later primary read fail.
func (h *harness) closeDB(t *testing.T) {
	t.Helper()
	sqlDB, err := h.gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()
}

func (h *harness) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c := &models.Client{Name: name}
	if err := h.svc.Clients.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	return c
}

func decodeInvoice(t *testing.T, raw string) InvoiceInput {
	t.Helper()
	var in InvoiceInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return in
}

func violations(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *httpx.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ve.Violations
}

func TestInvoiceCreate_TotalsAndDefaults(t *testing.T) {
	h := newHarness(t)
	c := h.client(t, "Dupont")

	inv, err := h.svc.Invoices.Create(context.Background(), InvoiceInput{
		ClientID:      c.ID,
		AmountExclTax: Amount{Value: decimal.RequireFromString("1000"), Set: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !inv.TaxRate.Equal(DefaultTaxRate) {
		t.Fatalf("tax rate = %s, want default %s", inv.TaxRate, DefaultTaxRate)
	}
	tot := h.svc.Invoices.Totals(inv)
	if tot.TaxAmount.String() != "200" || tot.AmountInclTax.String() != "1200" {
		t.Fatalf("totals = %+v", tot)
	}
	if !tot.AmountExclTax.Add(tot.TaxAmount).Equal(tot.AmountInclTax) {
		t.Fatal("excl + tax != incl")
	}
	if inv.Status != models.InvoiceStatusPending {
		t.Fatalf("status = %q", inv.Status)
	}
	if !inv.IssueDate.Equal(fixedNow) {
		t.Fatalf("issue date = %v", inv.IssueDate)
	}
	if !strings.HasPrefix(inv.Number, "FAC-2025-") {
		t.Fatalf("number = %q", inv.Number)
	}
}

func TestInvoiceCreate_UserTypedInput(t *testing.T) {
	h := newHarness(t)
	c := h.client(t, "Martin")
	in := decodeInvoice(t, `{"client_id":`+jsonID(c.ID)+`,"amount_excl_tax":"1 234,56","tax_rate":"5.5%","issue_date":"2025-03-01","due_date":"2025-03-31"}`)

	inv, err := h.svc.Invoices.Create(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if inv.TaxRate.String() != "0.055" {
		t.Fatalf("rate = %s", inv.TaxRate)
	}
	if inv.TaxAmount.String() != "67.9" || inv.AmountInclTax.String() != "1302.46" {
		t.Fatalf("tax=%s incl=%s", inv.TaxAmount, inv.AmountInclTax)
	}
}

func TestInvoiceCreate_Violations(t *testing.T) {
	h := newHarness(t)
	c := h.client(t, "Durand")
	other := h.client(t, "Bernard")
	svc, err := h.svc.Services.Create(context.Background(), ServiceInput{
		ClientID: other.ID, Type: "Déménagement", ScheduledAt: Date{Time: fixedNow, Set: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		raw   string
		field string
		code  string
	}{
		{"missing client", `{"amount_excl_tax":100}`, "client_id", "required"},
		{"unknown client", `{"client_id":999,"amount_excl_tax":100}`, "client_id", "not_found"},
		{"missing amount", `{"client_id":` + jsonID(c.ID) + `}`, "amount_excl_tax", "required"},
		{"amount not a number", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":"abc"}`, "amount_excl_tax", "not_a_number"},
		{"negative amount", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":-5}`, "amount_excl_tax", "must_not_be_negative"},
		{"rate not a number", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"tax_rate":"x"}`, "tax_rate", "not_a_number"},
		{"rate out of range", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"tax_rate":150}`, "tax_rate", "out_of_range"},
		{"fractional rate above one", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"tax_rate":1.5}`, "tax_rate", "out_of_range"},
		{"bad status", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"status":"lost"}`, "status", "invalid_value"},
		{"due before issue", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"issue_date":"2025-03-10","due_date":"2025-03-01"}`, "due_date", "before_issue_date"},
		{"prestation of another client", `{"client_id":` + jsonID(c.ID) + `,"amount_excl_tax":10,"prestation_id":` + jsonID(svc.ID) + `}`, "prestation_id", "client_mismatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Invoices.Create(context.Background(), decodeInvoice(t, tc.raw))
			v := violations(t, err)
			if v[tc.field] != tc.code {
				t.Fatalf("violations = %v, want %s=%s", v, tc.field, tc.code)
			}
		})
	}

	list := h.svc.Invoices.List(context.Background(), store.InvoiceFilter{})
	if len(list.Items) != 0 {
		t.Fatalf("rejected invoices were stored: %d", len(list.Items))
	}
}

func TestInvoiceUpdate_RecomputesAndMarkPaid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client(t, "Petit")
	inv, err := h.svc.Invoices.Create(ctx, InvoiceInput{ClientID: c.ID, AmountExclTax: Amount{Value: decimal.NewFromInt(100), Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	number := inv.Number

	upd, err := h.svc.Invoices.Update(ctx, inv.ID, InvoiceInput{
		ClientID:      c.ID,
		AmountExclTax: Amount{Value: decimal.NewFromInt(250), Set: true},
		TaxRate:       Rate{Value: decimal.RequireFromString("0.1"), Set: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Number != number {
		t.Fatalf("number changed: %q -> %q", number, upd.Number)
	}
	if upd.AmountInclTax.String() != "275" {
		t.Fatalf("incl = %s", upd.AmountInclTax)
	}

	paid, err := h.svc.Invoices.MarkPaid(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.Status != models.InvoiceStatusPaid {
		t.Fatalf("status = %q", paid.Status)
	}
	if _, err := h.svc.Invoices.MarkPaid(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestWrites_PublishChangeEvents(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, unsubscribe := h.broker.Subscribe(ctx, feed.RelationServices)
	defer unsubscribe()

	c := h.client(t, "Lefebvre")
	svc, err := h.svc.Services.Create(ctx, ServiceInput{ClientID: c.ID, Type: "Emballage", ScheduledAt: Date{Time: fixedNow, Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.svc.Services.Delete(ctx, svc.ID); err != nil {
		t.Fatal(err)
	}

	for _, want := range []feed.Op{feed.OpInsert, feed.OpDelete} {
		select {
		case e := <-events:
			if e.Op != want || e.Relation != feed.RelationServices {
				t.Fatalf("event = %+v, want %s", e, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("no %s event", want)
		}
	}
}

func TestServiceCreate_Violations(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Services.Create(context.Background(), ServiceInput{
		ClientID:           42,
		RequiredStaffCount: -1,
		Status:             "unknown",
	})
	v := violations(t, err)
	for field, code := range map[string]string{
		"client_id":            "not_found",
		"type":                 "required",
		"scheduled_at":         "required",
		"status":               "invalid_value",
		"required_staff_count": "must_not_be_negative",
	} {
		if v[field] != code {
			t.Errorf("%s = %q, want %q (all: %v)", field, v[field], code, v)
		}
	}
}

func TestClientDelete_RefusedWhileReferenced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client(t, "Moreau")
	if _, err := h.svc.Services.Create(ctx, ServiceInput{ClientID: c.ID, Type: "Garde-meubles", ScheduledAt: Date{Time: fixedNow, Set: true}}); err != nil {
		t.Fatal(err)
	}
	if err := h.svc.Clients.Delete(ctx, c.ID); !errors.Is(err, store.ErrClientInUse) {
		t.Fatalf("err = %v, want ErrClientInUse", err)
	}
	if _, err := h.svc.Clients.Get(ctx, c.ID); err != nil {
		t.Fatalf("client gone after refused delete: %v", err)
	}
}

func TestClientCreate_InvalidEmail(t *testing.T) {
	h := newHarness(t)
	err := h.svc.Clients.Create(context.Background(), &models.Client{Name: "  ", Email: "nope"})
	v := violations(t, err)
	if v["name"] != "required" || v["email"] != "invalid_email" {
		t.Fatalf("violations = %v", v)
	}
}

func TestLists_FallBackWhenStoreFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.client(t, "Roux")
	h.client(t, "Fournier")

	fresh := h.svc.Clients.List(ctx, store.ClientFilter{})
	if fresh.Stale || len(fresh.Items) != 2 {
		t.Fatalf("fresh = %+v", fresh)
	}

	h.closeDB(t)

	cached := h.svc.Clients.List(ctx, store.ClientFilter{})
	if !cached.Stale || len(cached.Items) != 2 {
		t.Fatalf("cached = %+v", cached)
	}
	filtered := h.svc.Clients.List(ctx, store.ClientFilter{Search: "roux"})
	if !filtered.Stale || len(filtered.Items) != 1 || filtered.Items[0].Name != "Roux" {
		t.Fatalf("filtered = %+v", filtered)
	}
	vehicles := h.svc.Fleet.ListVehicles(ctx, store.VehicleFilter{})
	if !vehicles.Stale || len(vehicles.Items) != 0 {
		t.Fatalf("vehicles without copy = %+v", vehicles)
	}
}

func TestCalendarWindow_MergesAndOrders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client(t, "Girard")

	if _, err := h.svc.Services.Create(ctx, ServiceInput{ClientID: c.ID, Type: "Déménagement", ScheduledAt: Date{Time: time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC), Set: true}}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.Services.Create(ctx, ServiceInput{ClientID: c.ID, Type: "Hors fenêtre", ScheduledAt: Date{Time: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC), Set: true}}); err != nil {
		t.Fatal(err)
	}
	ev, err := h.svc.Calendar.CreateEvent(ctx, EventInput{Title: "Visite technique", StartAt: Date{Time: time.Date(2025, 3, 18, 14, 0, 0, 0, time.UTC), Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	if !ev.EndAt.Equal(ev.StartAt.Add(time.Hour)) {
		t.Fatalf("event end = %v", ev.EndAt)
	}

	view, stale := h.svc.Calendar.Window(ctx, finance.DateRange{})
	if stale {
		t.Fatal("unexpected stale view")
	}
	if len(view.Entries) != 2 {
		t.Fatalf("entries = %+v", view.Entries)
	}
	if view.Entries[0].Kind != EntryEvent || view.Entries[1].Kind != EntryService {
		t.Fatalf("order = %s, %s", view.Entries[0].Kind, view.Entries[1].Kind)
	}
	if got := view.Entries[1]; got.Title != "Déménagement - Girard" || !got.End.Equal(got.Start.Add(ServiceSlot)) {
		t.Fatalf("service entry = %+v", got)
	}

	weeks := Grid(view)
	if len(weeks) != 6 {
		t.Fatalf("weeks = %d, want 6 for March 2025", len(weeks))
	}
	if !weeks[0][5].Day.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first day cell = %v", weeks[0][5].Day)
	}

	if err := h.svc.Calendar.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.svc.Calendar.DeleteEvent(ctx, ev.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestCalendarCreateEvent_DefaultEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 18, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		in        EventInput
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"timed without end", EventInput{Title: "Visite", StartAt: Date{Time: start, Set: true}}, start, start.Add(ServiceSlot)},
		{"timed with end", EventInput{Title: "Devis", StartAt: Date{Time: start, Set: true}, EndAt: Date{Time: start.Add(3 * time.Hour), Set: true}}, start, start.Add(3 * time.Hour)},
		{"all day", EventInput{Title: "Inventaire", AllDay: true, StartAt: Date{Time: start, Set: true}}, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := h.svc.Calendar.CreateEvent(ctx, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if !e.StartAt.Equal(tc.wantStart) || !e.EndAt.Equal(tc.wantEnd) {
				t.Fatalf("event = %v..%v, want %v..%v", e.StartAt, e.EndAt, tc.wantStart, tc.wantEnd)
			}
		})
	}

	view, _ := h.svc.Calendar.Window(ctx, finance.DateRange{})
	for _, entry := range view.Entries {
		if entry.End.IsZero() || entry.End.Before(entry.Start) {
			t.Fatalf("entry %q end = %v", entry.Title, entry.End)
		}
	}
}

func TestCalendarWindow_OneSidedRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.svc.Calendar.CreateEvent(ctx, EventInput{Title: "Visite", StartAt: Date{Time: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC), Set: true}}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		rng      finance.DateRange
		from, to time.Time
		entries  int
	}{
		{"from only", finance.DateRange{Start: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)}, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), 1},
		{"to only", finance.DateRange{End: time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC)}, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, _ := h.svc.Calendar.Window(ctx, tc.rng)
			if !view.From.Equal(tc.from) || !view.To.Equal(tc.to) {
				t.Fatalf("window = %v..%v, want %v..%v", view.From, view.To, tc.from, tc.to)
			}
			if len(view.Entries) != tc.entries {
				t.Fatalf("entries = %d, want %d", len(view.Entries), tc.entries)
			}
			if len(Grid(view)) == 0 {
				t.Fatal("empty grid")
			}
		})
	}
}

func TestCalendarCreateEvent_Violations(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Calendar.CreateEvent(context.Background(), EventInput{
		StartAt: Date{Time: fixedNow, Set: true},
		EndAt:   Date{Time: fixedNow.Add(-time.Hour), Set: true},
	})
	v := violations(t, err)
	if v["title"] != "required" || v["end_at"] != "before_start" {
		t.Fatalf("violations = %v", v)
	}
}

func TestDashboardFetch_AndCurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client(t, "Blanc")
	if _, err := h.svc.Invoices.Create(ctx, InvoiceInput{
		ClientID:      c.ID,
		AmountExclTax: Amount{Value: decimal.NewFromInt(500), Set: true},
		IssueDate:     Date{Time: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Set: true},
		Status:        models.InvoiceStatusPaid,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.Services.Create(ctx, ServiceInput{ClientID: c.ID, Type: "Déménagement", RequiredHandlersCount: 4, ScheduledAt: Date{Time: time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC), Set: true}}); err != nil {
		t.Fatal(err)
	}

	d, stale, err := h.svc.Dashboard.Fetch(ctx)
	if err != nil || stale {
		t.Fatalf("fetch: stale=%v err=%v", stale, err)
	}
	if d.Counts.Clients != 1 || d.Counts.Invoices != 1 {
		t.Fatalf("counts = %+v", d.Counts)
	}
	if d.MonthRevenue.GrandTotal.String() != "600" {
		t.Fatalf("month revenue = %s", d.MonthRevenue.GrandTotal)
	}
	if d.Manpower.TotalHandlersSum != 4 {
		t.Fatalf("manpower = %+v", d.Manpower)
	}

	v, err := h.svc.Dashboard.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.svc.Dashboard.Snapshot.Load(); !ok || v.Data.Counts.Clients != 1 {
		t.Fatal("Current did not store a snapshot")
	}
}

func TestDashboardFetch_NoDataWhenStoreAndCopyMissing(t *testing.T) {
	h := newHarness(t)
	h.closeDB(t)
	if _, _, err := h.svc.Dashboard.Fetch(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestDates_ReadInApplicationZone(t *testing.T) {
	server := time.FixedZone("JST", 9*3600)
	app := time.FixedZone("CEST", 2*3600)
	prev := time.Local
	time.Local = server
	t.Cleanup(func() { time.Local = prev })

	h := newHarness(t)
	svc := New(Deps{
		Repo:     h.repo,
		Broker:   h.broker,
		Fallback: h.fb,
		Now:      func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) },
		Location: app,
	})
	ctx := context.Background()
	c := h.client(t, "Roux")
	in := decodeInvoice(t, `{"client_id":`+jsonID(c.ID)+`,"amount_excl_tax":100,"status":"paid","issue_date":"2025-03-31","due_date":"2025-04-30"}`)
	inv, err := svc.Invoices.Create(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 3, 31, 0, 0, 0, 0, app); !inv.IssueDate.Equal(want) {
		t.Fatalf("issue date = %v, want %v", inv.IssueDate, want)
	}
	if want := time.Date(2025, 4, 30, 0, 0, 0, 0, app); inv.DueDate == nil || !inv.DueDate.Equal(want) {
		t.Fatalf("due date = %v, want %v", inv.DueDate, want)
	}

	cases := []struct {
		day   int
		count int
	}{
		{30, 0},
		{31, 1},
	}
	for _, tc := range cases {
		d := time.Date(2025, 3, tc.day, 0, 0, 0, 0, app)
		rep, _, err := svc.Reports.Build(ctx, finance.DateRange{Start: d, End: d, Location: app})
		if err != nil {
			t.Fatal(err)
		}
		if rep.Revenue.Count != tc.count {
			t.Fatalf("report for %02d/03 count = %d, want %d", tc.day, rep.Revenue.Count, tc.count)
		}
	}

	var sin ServiceInput
	if err := json.Unmarshal([]byte(`{"client_id":`+jsonID(c.ID)+`,"type":"Déménagement","scheduled_at":"2025-03-31T08:00"}`), &sin); err != nil {
		t.Fatal(err)
	}
	s, err := svc.Services.Create(ctx, sin)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 3, 31, 8, 0, 0, 0, app); !s.ScheduledAt.Equal(want) {
		t.Fatalf("scheduled at = %v, want %v", s.ScheduledAt, want)
	}

	var ein EventInput
	if err := json.Unmarshal([]byte(`{"title":"Visite","start_at":"2025-03-31T14:00:00+09:00"}`), &ein); err != nil {
		t.Fatal(err)
	}
	e, err := svc.Calendar.CreateEvent(ctx, ein)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 3, 31, 5, 0, 0, 0, time.UTC); !e.StartAt.Equal(want) {
		t.Fatalf("offset date moved: %v, want %v", e.StartAt, want)
	}
}

func TestReportExport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	c := h.client(t, "Garnier")
	if _, err := h.svc.Invoices.Create(ctx, InvoiceInput{ClientID: c.ID, AmountExclTax: Amount{Value: decimal.NewFromInt(100), Set: true}, Status: models.InvoiceStatusPaid}); err != nil {
		t.Fatal(err)
	}
	rep, _, err := h.svc.Reports.Build(ctx, finance.DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Revenue.GrandTotal.String() != "120" {
		t.Fatalf("revenue = %s", rep.Revenue.GrandTotal)
	}
	b, err := h.svc.Reports.Export(ctx, finance.DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 4 || string(b[:2]) != "PK" {
		t.Fatal("export is not a zip-based workbook")
	}
}

func TestAuthLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if err := db.Seed(ctx, h.gdb, "Admin@Example.com", "s3cret"); err != nil {
		t.Fatal(err)
	}

	p, err := h.svc.Auth.Login(ctx, "admin@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	principal, ok := h.svc.Auth.Lookup(ctx, p.ID)
	if !ok || !principal.Admin {
		t.Fatalf("principal = %+v ok=%v", principal, ok)
	}
	if _, err := h.svc.Auth.Login(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := h.svc.Auth.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
	if _, ok := h.svc.Auth.Lookup(ctx, 999); ok {
		t.Fatal("lookup of unknown profile succeeded")
	}
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
