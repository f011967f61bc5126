package reporting

import (
	"sort"
	"time"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/shopspring/decimal"
)

// Records is one fetch of everything the dashboard and reports read.
type Records struct {
	Clients   []models.Client
	Services  []models.Service
	Invoices  []models.Invoice
	Vehicles  []models.Vehicle
	Employees []models.Employee
}

// Counts are the headline numbers on the dashboard cards.
type Counts struct {
	Clients            int `json:"clients"`
	Services           int `json:"services"`
	ActiveServices     int `json:"active_services"`
	Invoices           int `json:"invoices"`
	UnpaidInvoices     int `json:"unpaid_invoices"`
	Vehicles           int `json:"vehicles"`
	AvailableVehicles  int `json:"available_vehicles"`
	Employees          int `json:"employees"`
	AvailableEmployees int `json:"available_employees"`
}

// Dashboard is the computed dashboard view.
type Dashboard struct {
	GeneratedAt      time.Time             `json:"generated_at"`
	Counts           Counts                `json:"counts"`
	MonthRevenue     finance.RevenueSeries `json:"month_revenue"`
	Outstanding      decimal.Decimal       `json:"outstanding"`
	Manpower         ManpowerReport        `json:"manpower"`
	UpcomingServices []models.Service      `json:"upcoming_services"`
	Alerts           []Alert               `json:"alerts"`
}

const upcomingLimit = 5

// BuildDashboard computes the dashboard for the month containing now. Revenue
// and manpower use the same definitions as the report screen.
func BuildDashboard(r Records, now time.Time) Dashboard {
	month := finance.MonthRange(now)
	d := Dashboard{
		GeneratedAt:  now,
		Counts:       countRecords(r),
		MonthRevenue: finance.AggregateRevenue(models.RevenueEntries(r.Invoices), month),
		Outstanding:  decimal.Zero,
		Manpower:     AggregateManpower(r.Clients, r.Services, month),
		Alerts:       GenerateAlerts(r.Vehicles, r.Invoices, now),
	}
	for i := range r.Invoices {
		switch r.Invoices[i].Status {
		case models.InvoiceStatusPending, models.InvoiceStatusOverdue:
			d.Outstanding = d.Outstanding.Add(r.Invoices[i].AmountInclTax)
		}
	}
	d.UpcomingServices = Upcoming(r.Services, now, 7, upcomingLimit)
	return d
}

// Upcoming returns up to limit active services scheduled between now and now
// plus days, soonest first.
func Upcoming(services []models.Service, now time.Time, days, limit int) []models.Service {
	until := now.AddDate(0, 0, days)
	out := []models.Service{}
	for _, s := range services {
		if !s.IsActive() || s.ScheduledAt.Before(now) || s.ScheduledAt.After(until) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].ScheduledAt.Before(out[b].ScheduledAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func countRecords(r Records) Counts {
	c := Counts{
		Clients:   len(r.Clients),
		Services:  len(r.Services),
		Invoices:  len(r.Invoices),
		Vehicles:  len(r.Vehicles),
		Employees: len(r.Employees),
	}
	for i := range r.Services {
		if r.Services[i].IsActive() {
			c.ActiveServices++
		}
	}
	for i := range r.Invoices {
		if s := r.Invoices[i].Status; s == models.InvoiceStatusPending || s == models.InvoiceStatusOverdue {
			c.UnpaidInvoices++
		}
	}
	for i := range r.Vehicles {
		if r.Vehicles[i].Status == models.VehicleStatusAvailable {
			c.AvailableVehicles++
		}
	}
	for i := range r.Employees {
		if r.Employees[i].Status == models.EmployeeStatusAvailable {
			c.AvailableEmployees++
		}
	}
	return c
}

// Report is the reporting screen: revenue series and manpower distribution
// over one range.
type Report struct {
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	GeneratedAt time.Time             `json:"generated_at"`
	Revenue     finance.RevenueSeries `json:"revenue"`
	Manpower    ManpowerReport        `json:"manpower"`
}

// BuildReport computes the report for rng.
func BuildReport(r Records, rng finance.DateRange, now time.Time) Report {
	return Report{
		From:        rng.Start,
		To:          rng.End,
		GeneratedAt: now,
		Revenue:     finance.AggregateRevenue(models.RevenueEntries(r.Invoices), rng),
		Manpower:    AggregateManpower(r.Clients, r.Services, rng),
	}
}
