package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
)

// Severity of a dashboard alert.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityError:   0,
	SeverityWarning: 1,
	SeveritySuccess: 2,
	SeverityInfo:    3,
}

// Alert is one operational notice on the dashboard.
type Alert struct {
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	EntityID uint     `json:"entity_id,omitempty"`
}

const (
	KindVehicle = "vehicle"
	KindInvoice = "invoice"
	KindSystem  = "system"
)

// GenerateAlerts scans vehicles and invoices and returns alerts ordered by
// severity. Within a severity, vehicle alerts come before invoice alerts, each
// in input order. When nothing needs attention a single success alert is
// returned.
func GenerateAlerts(vehicles []models.Vehicle, invoices []models.Invoice, today time.Time) []Alert {
	loc := today.Location()
	day := finance.Day(today, loc)
	tomorrow := day.AddDate(0, 0, 1)

	var alerts []Alert
	for _, v := range vehicles {
		if v.NextMaintenanceDate == nil || v.NextMaintenanceDate.IsZero() {
			continue
		}
		due := finance.Day(*v.NextMaintenanceDate, loc)
		switch {
		case due.Equal(day):
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Kind:     KindVehicle,
				Title:    "Maintenance due today",
				Message:  fmt.Sprintf("Vehicle %s is scheduled for maintenance today", vehicleLabel(v)),
				EntityID: v.ID,
			})
		case due.Equal(tomorrow):
			alerts = append(alerts, Alert{
				Severity: SeverityInfo,
				Kind:     KindVehicle,
				Title:    "Maintenance tomorrow",
				Message:  fmt.Sprintf("Vehicle %s is scheduled for maintenance tomorrow", vehicleLabel(v)),
				EntityID: v.ID,
			})
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		switch inv.Status {
		case models.InvoiceStatusOverdue:
			alerts = append(alerts, Alert{
				Severity: SeverityError,
				Kind:     KindInvoice,
				Title:    "Overdue invoice",
				Message:  fmt.Sprintf("Invoice %s%s is overdue", invoiceLabel(inv), clientSuffix(inv)),
				EntityID: inv.ID,
			})
		case models.InvoiceStatusPending:
			if days := inv.DaysPastDue(today); days > 0 {
				alerts = append(alerts, Alert{
					Severity: SeverityWarning,
					Kind:     KindInvoice,
					Title:    "Payment late",
					Message:  fmt.Sprintf("Invoice %s%s is %d day(s) past due", invoiceLabel(inv), clientSuffix(inv), days),
					EntityID: inv.ID,
				})
			}
		}
	}

	if len(alerts) == 0 {
		return []Alert{{
			Severity: SeveritySuccess,
			Kind:     KindSystem,
			Title:    "All clear",
			Message:  "No critical alerts",
		}}
	}
	SortAlerts(alerts)
	return alerts
}

// SortAlerts orders alerts by severity, keeping generation order for ties.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(a, b int) bool {
		return severityRank[alerts[a].Severity] < severityRank[alerts[b].Severity]
	})
}

func vehicleLabel(v models.Vehicle) string {
	if v.Model != "" {
		return v.Registration + " (" + v.Model + ")"
	}
	return v.Registration
}

func invoiceLabel(inv *models.Invoice) string {
	if inv.Number != "" {
		return inv.Number
	}
	return fmt.Sprintf("#%d", inv.ID)
}

func clientSuffix(inv *models.Invoice) string {
	if inv.ClientName == "" {
		return ""
	}
	return " for " + inv.ClientName
}
