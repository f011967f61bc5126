package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-demenagement/auth"
	"github.com/diewo77/go-demenagement/internal/refresh"
	"github.com/diewo77/go-demenagement/internal/services"
)

// RouterConfig holds the configured handlers of the API.
type RouterConfig struct {
	Sessions *auth.Manager

	AuthHandler      *AuthHandler
	ClientHandler    *ClientHandler
	ServiceHandler   *ServiceHandler
	InvoiceHandler   *InvoiceHandler
	FleetHandler     *FleetHandler
	CalendarHandler  *CalendarHandler
	DashboardHandler *DashboardHandler
}

// NewRouterConfig wires a handler onto each service. calendar is the snapshot
// kept current by the calendar poller; it may be nil.
func NewRouterConfig(svc *services.Services, sessions *auth.Manager, calendar *refresh.Snapshot[services.CalendarView], loc *time.Location, company string) *RouterConfig {
	return &RouterConfig{
		Sessions:         sessions,
		AuthHandler:      NewAuthHandler(svc.Auth, sessions),
		ClientHandler:    NewClientHandler(svc.Clients),
		ServiceHandler:   NewServiceHandler(svc.Services, loc, company),
		InvoiceHandler:   NewInvoiceHandler(svc.Invoices, loc, company),
		FleetHandler:     NewFleetHandler(svc.Fleet),
		CalendarHandler:  NewCalendarHandler(svc.Calendar, calendar, loc, company),
		DashboardHandler: NewDashboardHandler(svc.Dashboard, svc.Reports, loc),
	}
}

// Register adds every API route to mux. Routes under /api require a session;
// deletes require an admin profile.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireAdmin(h) }

	ah := c.AuthHandler
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)
	mux.Handle("GET /api/me", authed(ah.Me))

	ch := c.ClientHandler
	mux.Handle("GET /api/clients", authed(ch.List))
	mux.Handle("POST /api/clients", authed(ch.Create))
	mux.Handle("GET /api/clients/{id}", authed(ch.Get))
	mux.Handle("PUT /api/clients/{id}", authed(ch.Update))
	mux.Handle("DELETE /api/clients/{id}", admin(ch.Delete))

	sh := c.ServiceHandler
	mux.Handle("GET /api/services", authed(sh.List))
	mux.Handle("POST /api/services", authed(sh.Create))
	mux.Handle("GET /api/services/{id}", authed(sh.Get))
	mux.Handle("PUT /api/services/{id}", authed(sh.Update))
	mux.Handle("DELETE /api/services/{id}", admin(sh.Delete))
	mux.Handle("GET /api/services/{id}/print", authed(sh.Print))

	ih := c.InvoiceHandler
	mux.Handle("GET /api/invoices", authed(ih.List))
	mux.Handle("POST /api/invoices", authed(ih.Create))
	mux.Handle("GET /api/invoices/{id}", authed(ih.Get))
	mux.Handle("PUT /api/invoices/{id}", authed(ih.Update))
	mux.Handle("DELETE /api/invoices/{id}", admin(ih.Delete))
	mux.Handle("POST /api/invoices/{id}/paid", authed(ih.MarkPaid))
	mux.Handle("GET /api/invoices/{id}/print", authed(ih.Print))
	mux.Handle("GET /api/invoices/{id}/pdf", authed(ih.PDF))

	fh := c.FleetHandler
	mux.Handle("GET /api/vehicles", authed(fh.ListVehicles))
	mux.Handle("POST /api/vehicles", authed(fh.CreateVehicle))
	mux.Handle("GET /api/vehicles/{id}", authed(fh.GetVehicle))
	mux.Handle("PUT /api/vehicles/{id}", authed(fh.UpdateVehicle))
	mux.Handle("DELETE /api/vehicles/{id}", admin(fh.DeleteVehicle))
	mux.Handle("GET /api/employees", authed(fh.ListEmployees))
	mux.Handle("POST /api/employees", authed(fh.CreateEmployee))
	mux.Handle("GET /api/employees/{id}", authed(fh.GetEmployee))
	mux.Handle("PUT /api/employees/{id}", authed(fh.UpdateEmployee))
	mux.Handle("DELETE /api/employees/{id}", admin(fh.DeleteEmployee))

	cal := c.CalendarHandler
	mux.Handle("GET /api/calendar", authed(cal.Calendar))
	mux.Handle("GET /api/calendar/print", authed(cal.Print))
	mux.Handle("POST /api/calendar/events", authed(cal.CreateEvent))
	mux.Handle("DELETE /api/calendar/events/{id}", authed(cal.DeleteEvent))

	dh := c.DashboardHandler
	mux.Handle("GET /api/dashboard", authed(dh.Dashboard))
	mux.Handle("GET /api/reports", authed(dh.Reports))
	mux.Handle("GET /api/reports/export", authed(dh.Export))
}
