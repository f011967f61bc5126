package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-demenagement/internal/export"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/refresh"
	"github.com/diewo77/go-demenagement/internal/reporting"
	"github.com/diewo77/go-demenagement/internal/store"
)

// ErrNoData is returned by a fetch when the Record Store is unreachable and
// there is no fallback copy at all. Pollers keep their previous view.
var ErrNoData = errors.New("no data available")

// loadRecords reads every list the dashboard and reports need, each through
// its fallback copy.
func (d Deps) loadRecords(ctx context.Context) (reporting.Records, bool, error) {
	var (
		r     reporting.Records
		stale [5]bool
	)
	r.Clients, stale[0] = fallback.List(ctx, d.Fallback, fallback.KeyClients,
		func(ctx context.Context) ([]models.Client, error) { return d.Repo.Clients.List(ctx, store.ClientFilter{}) })
	r.Services, stale[1] = fallback.List(ctx, d.Fallback, fallback.KeyServices,
		func(ctx context.Context) ([]models.Service, error) { return d.Repo.Services.List(ctx, store.ServiceFilter{}) })
	r.Invoices, stale[2] = fallback.List(ctx, d.Fallback, fallback.KeyInvoices,
		func(ctx context.Context) ([]models.Invoice, error) { return d.Repo.Invoices.List(ctx, store.InvoiceFilter{}) })
	r.Vehicles, stale[3] = fallback.List(ctx, d.Fallback, fallback.KeyVehicles,
		func(ctx context.Context) ([]models.Vehicle, error) { return d.Repo.Vehicles.List(ctx, store.VehicleFilter{}) })
	r.Employees, stale[4] = fallback.List(ctx, d.Fallback, fallback.KeyEmployees,
		func(ctx context.Context) ([]models.Employee, error) { return d.Repo.Employees.List(ctx, store.EmployeeFilter{}) })

	anyStale, allStale := false, true
	for _, s := range stale {
		anyStale = anyStale || s
		allStale = allStale && s
	}
	empty := len(r.Clients)+len(r.Services)+len(r.Invoices)+len(r.Vehicles)+len(r.Employees) == 0
	if allStale && empty {
		return r, true, ErrNoData
	}
	return r, anyStale, nil
}

// DashboardService computes the dashboard. The poller keeps Snapshot current;
// requests read it.
type DashboardService struct {
	Deps
	Snapshot *refresh.Snapshot[reporting.Dashboard]
}

func NewDashboardService(d Deps) *DashboardService {
	return &DashboardService{Deps: d, Snapshot: &refresh.Snapshot[reporting.Dashboard]{}}
}

// Fetch loads the records and builds the dashboard for the current month.
func (s *DashboardService) Fetch(ctx context.Context) (reporting.Dashboard, bool, error) {
	r, stale, err := s.loadRecords(ctx)
	if err != nil {
		return reporting.Dashboard{}, stale, err
	}
	return reporting.BuildDashboard(r, s.now()), stale, nil
}

// Current returns the last computed dashboard, computing one on demand when
// the poller has not produced any yet.
func (s *DashboardService) Current(ctx context.Context) (refresh.Value[reporting.Dashboard], error) {
	if v, ok := s.Snapshot.Load(); ok {
		return v, nil
	}
	d, stale, err := s.Fetch(ctx)
	if err != nil {
		return refresh.Value[reporting.Dashboard]{}, err
	}
	v := refresh.Value[reporting.Dashboard]{Data: d, FetchedAt: s.now(), Stale: stale}
	s.Snapshot.Store(v)
	return v, nil
}

// ReportService computes revenue and manpower reports. The current month is
// kept in Snapshot; other ranges are computed per request.
type ReportService struct {
	Deps
	Snapshot *refresh.Snapshot[reporting.Report]
}

func NewReportService(d Deps) *ReportService {
	return &ReportService{Deps: d, Snapshot: &refresh.Snapshot[reporting.Report]{}}
}

func (s *ReportService) normalize(rng finance.DateRange) finance.DateRange {
	if rng.IsZero() {
		rng = finance.MonthRange(s.now())
	}
	if rng.Location == nil {
		rng.Location = s.loc()
	}
	return rng
}

// Build computes the report over rng; a zero range means the current month.
func (s *ReportService) Build(ctx context.Context, rng finance.DateRange) (reporting.Report, bool, error) {
	rng = s.normalize(rng)
	r, stale, err := s.loadRecords(ctx)
	if err != nil {
		return reporting.Report{}, stale, err
	}
	return reporting.BuildReport(r, rng, s.now()), stale, nil
}

// Fetch builds the current month's report; it is the report poller's fetch.
func (s *ReportService) Fetch(ctx context.Context) (reporting.Report, bool, error) {
	return s.Build(ctx, finance.DateRange{})
}

// Current returns the report for rng. The current month is served from the
// snapshot when one exists.
func (s *ReportService) Current(ctx context.Context, rng finance.DateRange) (refresh.Value[reporting.Report], error) {
	month := s.normalize(finance.DateRange{})
	if rng.IsZero() || (rng.Start.Equal(month.Start) && rng.End.Equal(month.End)) {
		if v, ok := s.Snapshot.Load(); ok {
			return v, nil
		}
	}
	rep, stale, err := s.Build(ctx, rng)
	if err != nil {
		return refresh.Value[reporting.Report]{}, err
	}
	return refresh.Value[reporting.Report]{Data: rep, FetchedAt: s.now(), Stale: stale}, nil
}

// Export renders the report over rng as an xlsx workbook.
func (s *ReportService) Export(ctx context.Context, rng finance.DateRange) ([]byte, error) {
	rep, _, err := s.Build(ctx, rng)
	if err != nil {
		return nil, err
	}
	return export.ReportWorkbook(rep)
}
