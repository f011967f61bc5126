// Package reporting derives the dashboard and report views from raw records:
// manpower distribution across clients and operational alerts.
package reporting

import (
	"sort"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ManpowerRow is the handler demand of one client.
type ManpowerRow struct {
	ClientID                  uint            `json:"client_id"`
	ClientName                string          `json:"client_name"`
	TotalHandlers             int             `json:"total_handlers"`
	AverageHandlersPerService decimal.Decimal `json:"average_handlers_per_service"`
	ServiceCount              int             `json:"service_count"`
}

// ManpowerReport is the per-client handler distribution for a period.
type ManpowerReport struct {
	Rows                []ManpowerRow `json:"rows"`
	TotalHandlersSum    int           `json:"total_handlers_sum"`
	DistinctClientCount int           `json:"distinct_client_count"`
	SkippedServices     int           `json:"skipped_services"`
}

// AggregateManpower sums required handlers per client over the services
// scheduled in rng (a zero range keeps every service). Every client gets a
// row, including clients without services. Rows are sorted by total handlers,
// descending; equal totals keep the order of clients. Services pointing at an
// unknown client are skipped and logged.
func AggregateManpower(clients []models.Client, services []models.Service, rng finance.DateRange) ManpowerReport {
	rows := make([]ManpowerRow, len(clients))
	index := make(map[uint]int, len(clients))
	for i, c := range clients {
		rows[i] = ManpowerRow{ClientID: c.ID, ClientName: c.Name}
		index[c.ID] = i
	}

	report := ManpowerReport{}
	for _, s := range services {
		if !rng.IsZero() && !rng.Contains(s.ScheduledAt) {
			continue
		}
		i, ok := index[s.ClientID]
		if !ok {
			report.SkippedServices++
			logging.Get().WithFields(logrus.Fields{
				"module":     "reporting",
				"service_id": s.ID,
				"client_id":  s.ClientID,
			}).Warn("service references unknown client, skipped")
			continue
		}
		handlers := s.RequiredHandlersCount
		if handlers < 0 {
			handlers = 0
		}
		rows[i].ServiceCount++
		rows[i].TotalHandlers += handlers
		report.TotalHandlersSum += handlers
	}

	for i := range rows {
		rows[i].AverageHandlersPerService = decimal.Zero
		if rows[i].ServiceCount > 0 {
			report.DistinctClientCount++
			rows[i].AverageHandlersPerService = decimal.NewFromInt(int64(rows[i].TotalHandlers)).
				DivRound(decimal.NewFromInt(int64(rows[i].ServiceCount)), 2)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].TotalHandlers > rows[b].TotalHandlers
	})
	report.Rows = rows
	return report
}
