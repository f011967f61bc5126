package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/services"
)

// DashboardHandler serves the dashboard and the reports.
type DashboardHandler struct {
	dashboard *services.DashboardService
	reports   *services.ReportService
	loc       *time.Location
}

func NewDashboardHandler(dashboard *services.DashboardService, reports *services.ReportService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, reports: reports, loc: loc}
}

func unavailable(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, services.ErrNoData) {
		httpx.JSONError(w, http.StatusServiceUnavailable, "data_unavailable", nil)
		return
	}
	httpx.Error(w, err, action)
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Current(r.Context())
	if err != nil {
		unavailable(w, err, "dashboard")
		return
	}
	markStale(w, v.Stale)
	httpx.JSON(w, http.StatusOK, v)
}

// Reports answers the revenue and manpower report between from and to.
func (h *DashboardHandler) Reports(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "reports")
		return
	}
	v, err := h.reports.Current(r.Context(), rng)
	if err != nil {
		unavailable(w, err, "reports")
		return
	}
	markStale(w, v.Stale)
	httpx.JSON(w, http.StatusOK, v)
}

// Export downloads the report as an xlsx workbook.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "export_report")
		return
	}
	b, err := h.reports.Export(r.Context(), rng)
	if err != nil {
		unavailable(w, err, "export_report")
		return
	}
	name := fmt.Sprintf("report-%s.xlsx", time.Now().In(h.loc).Format("20060102"))
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name)
	_, _ = w.Write(b)
}
