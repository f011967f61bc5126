package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

// ServiceHandler serves the moving services (prestations).
type ServiceHandler struct {
	svc     *services.ServiceService
	loc     *time.Location
	company string
}

func NewServiceHandler(svc *services.ServiceService, loc *time.Location, company string) *ServiceHandler {
	return &ServiceHandler{svc: svc, loc: loc, company: company}
}

// List accepts client_id, status, from and to filters.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	f := store.ServiceFilter{
		ClientID: queryID(r, "client_id", v),
		Status:   models.ServiceStatus(r.URL.Query().Get("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		v["status"] = "invalid_value"
	}
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "list_services")
		return
	}
	if err := httpx.Invalid(v); err != nil {
		httpx.Error(w, err, "list_services")
		return
	}
	f.Range = rng
	writeList(w, h.svc.List(r.Context(), f))
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "get_service")
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err, "create_service")
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		httpx.Error(w, err, "update_service")
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Print renders the service sheet as a standalone HTML page.
func (h *ServiceHandler) Print(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "print_service")
		return
	}
	renderHTML(w, "service.html", map[string]any{"Service": s, "Company": h.company}, "ServiceHandler.Print")
}
