package handlers

import (
	"net/http"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

// FleetHandler serves vehicles and employees.
type FleetHandler struct {
	svc *services.FleetService
}

func NewFleetHandler(svc *services.FleetService) *FleetHandler {
	return &FleetHandler{svc: svc}
}

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	status := models.VehicleStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		httpx.Error(w, httpx.Invalid(validation.Violations{"status": "invalid_value"}), "list_vehicles")
		return
	}
	writeList(w, h.svc.ListVehicles(r.Context(), store.VehicleFilter{Status: status}))
}

func (h *FleetHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.GetVehicle(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "get_vehicle")
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *FleetHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if !decode(w, r, &v) {
		return
	}
	if err := h.svc.CreateVehicle(r.Context(), &v); err != nil {
		httpx.Error(w, err, "create_vehicle")
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
}

func (h *FleetHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v models.Vehicle
	if !decode(w, r, &v) {
		return
	}
	if err := h.svc.UpdateVehicle(r.Context(), id, &v); err != nil {
		httpx.Error(w, err, "update_vehicle")
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *FleetHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteVehicle(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FleetHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	status := models.EmployeeStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		httpx.Error(w, httpx.Invalid(validation.Violations{"status": "invalid_value"}), "list_employees")
		return
	}
	writeList(w, h.svc.ListEmployees(r.Context(), store.EmployeeFilter{Status: status}))
}

func (h *FleetHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "get_employee")
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *FleetHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var e models.Employee
	if !decode(w, r, &e) {
		return
	}
	if err := h.svc.CreateEmployee(r.Context(), &e); err != nil {
		httpx.Error(w, err, "create_employee")
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *FleetHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var e models.Employee
	if !decode(w, r, &e) {
		return
	}
	if err := h.svc.UpdateEmployee(r.Context(), id, &e); err != nil {
		httpx.Error(w, err, "update_employee")
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *FleetHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteEmployee(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
