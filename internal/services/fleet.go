package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

// FleetService manages vehicles and employees.
type FleetService struct{ Deps }

func NewFleetService(d Deps) *FleetService { return &FleetService{d} }

func (s *FleetService) ListVehicles(ctx context.Context, f store.VehicleFilter) ListResult[models.Vehicle] {
	return cachedList(ctx, s.Fallback, fallback.KeyVehicles, f.Status != "", f.Match,
		func(ctx context.Context) ([]models.Vehicle, error) { return s.Repo.Vehicles.List(ctx, store.VehicleFilter{}) },
		func(ctx context.Context) ([]models.Vehicle, error) { return s.Repo.Vehicles.List(ctx, f) },
	)
}

func (s *FleetService) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	return s.Repo.Vehicles.Get(ctx, id)
}

func validateVehicle(v *models.Vehicle) error {
	v.Registration = strings.ToUpper(strings.TrimSpace(v.Registration))
	v.Model = strings.TrimSpace(v.Model)
	if v.Status == "" {
		v.Status = models.VehicleStatusAvailable
	}
	violations := validation.Struct(v)
	if !v.Status.Valid() {
		violations["status"] = "invalid_value"
	}
	return httpx.Invalid(violations)
}

func (s *FleetService) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	if err := validateVehicle(v); err != nil {
		return err
	}
	v.ID = 0
	if err := s.Repo.Vehicles.Create(ctx, v); err != nil {
		logWrite("FleetService.CreateVehicle", "create vehicle", v.Registration, err)
		return err
	}
	s.notify(ctx, feed.RelationVehicles, feed.OpInsert, v.ID)
	return nil
}

func (s *FleetService) UpdateVehicle(ctx context.Context, id uint, v *models.Vehicle) error {
	if err := validateVehicle(v); err != nil {
		return err
	}
	v.ID = id
	if err := s.Repo.Vehicles.Update(ctx, v); err != nil {
		logWrite("FleetService.UpdateVehicle", "update vehicle", id, err)
		return err
	}
	s.notify(ctx, feed.RelationVehicles, feed.OpUpdate, id)
	return nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, id uint) error {
	if err := s.Repo.Vehicles.Delete(ctx, id); err != nil {
		logWrite("FleetService.DeleteVehicle", "delete vehicle", id, err)
		return err
	}
	s.notify(ctx, feed.RelationVehicles, feed.OpDelete, id)
	return nil
}

func (s *FleetService) ListEmployees(ctx context.Context, f store.EmployeeFilter) ListResult[models.Employee] {
	return cachedList(ctx, s.Fallback, fallback.KeyEmployees, f.Status != "", f.Match,
		func(ctx context.Context) ([]models.Employee, error) { return s.Repo.Employees.List(ctx, store.EmployeeFilter{}) },
		func(ctx context.Context) ([]models.Employee, error) { return s.Repo.Employees.List(ctx, f) },
	)
}

func (s *FleetService) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	return s.Repo.Employees.Get(ctx, id)
}

func validateEmployee(e *models.Employee) error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(e.Email)
	if e.Status == "" {
		e.Status = models.EmployeeStatusAvailable
	}
	violations := validation.Struct(e)
	if !e.Status.Valid() {
		violations["status"] = "invalid_value"
	}
	return httpx.Invalid(violations)
}

func (s *FleetService) CreateEmployee(ctx context.Context, e *models.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}
	e.ID = 0
	if err := s.Repo.Employees.Create(ctx, e); err != nil {
		logWrite("FleetService.CreateEmployee", "create employee", e.FullName(), err)
		return err
	}
	s.notify(ctx, feed.RelationEmployee, feed.OpInsert, e.ID)
	return nil
}

func (s *FleetService) UpdateEmployee(ctx context.Context, id uint, e *models.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}
	e.ID = id
	if err := s.Repo.Employees.Update(ctx, e); err != nil {
		logWrite("FleetService.UpdateEmployee", "update employee", id, err)
		return err
	}
	s.notify(ctx, feed.RelationEmployee, feed.OpUpdate, id)
	return nil
}

func (s *FleetService) DeleteEmployee(ctx context.Context, id uint) error {
	if err := s.Repo.Employees.Delete(ctx, id); err != nil {
		logWrite("FleetService.DeleteEmployee", "delete employee", id, err)
		return err
	}
	s.notify(ctx, feed.RelationEmployee, feed.OpDelete, id)
	return nil
}
