package store

import (
	"context"

	"github.com/diewo77/go-demenagement/internal/models"
)

// VehicleFilter narrows a vehicle listing.
type VehicleFilter struct {
	Status models.VehicleStatus
}

// VehicleRepo reads and writes the vehicules relation.
type VehicleRepo struct{ crud[models.Vehicle] }

func (r *VehicleRepo) List(ctx context.Context, f VehicleFilter) ([]models.Vehicle, error) {
	q := r.conn(ctx).Order("registration ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := []models.Vehicle{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("vehicules", err)
	}
	return out, nil
}

func (r *VehicleRepo) Get(ctx context.Context, id uint) (*models.Vehicle, error) {
	return r.get(ctx, id)
}

func (r *VehicleRepo) Create(ctx context.Context, v *models.Vehicle) error {
	return r.create(ctx, v)
}

func (r *VehicleRepo) Update(ctx context.Context, v *models.Vehicle) error {
	return r.update(ctx, v.ID, v, func(e *models.Vehicle) { v.CreatedAt = e.CreatedAt })
}

func (r *VehicleRepo) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}

// EmployeeFilter narrows an employee listing.
type EmployeeFilter struct {
	Status models.EmployeeStatus
}

// EmployeeRepo reads and writes the employees relation.
type EmployeeRepo struct{ crud[models.Employee] }

func (r *EmployeeRepo) List(ctx context.Context, f EmployeeFilter) ([]models.Employee, error) {
	q := r.conn(ctx).Order("last_name ASC").Order("first_name ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := []models.Employee{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("employees", err)
	}
	return out, nil
}

func (r *EmployeeRepo) Get(ctx context.Context, id uint) (*models.Employee, error) {
	return r.get(ctx, id)
}

func (r *EmployeeRepo) Create(ctx context.Context, e *models.Employee) error {
	return r.create(ctx, e)
}

func (r *EmployeeRepo) Update(ctx context.Context, e *models.Employee) error {
	return r.update(ctx, e.ID, e, func(old *models.Employee) { e.CreatedAt = old.CreatedAt })
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}

// Match applies the filter to an already loaded vehicle.
func (f VehicleFilter) Match(v *models.Vehicle) bool {
	return f.Status == "" || v.Status == f.Status
}

// Match applies the filter to an already loaded employee.
func (f EmployeeFilter) Match(e *models.Employee) bool {
	return f.Status == "" || e.Status == f.Status
}
