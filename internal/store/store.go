// Package store is the Record Store boundary. Every relation gets one
// repository returning one flat DTO per entity, with joins already resolved.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-demenagement/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrClientInUse = errors.New("client is referenced by invoices or services")
)

// Repository groups the per-relation repositories over one connection.
type Repository struct {
	db *gorm.DB

	Clients   *ClientRepo
	Services  *ServiceRepo
	Invoices  *InvoiceRepo
	Vehicles  *VehicleRepo
	Employees *EmployeeRepo
	Profiles  *ProfileRepo
	Events    *EventRepo
}

// New builds the repositories on db.
func New(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		Clients:   &ClientRepo{crud[models.Client]{db}},
		Services:  &ServiceRepo{crud[models.Service]{db}},
		Invoices:  &InvoiceRepo{crud[models.Invoice]{db}},
		Vehicles:  &VehicleRepo{crud[models.Vehicle]{db}},
		Employees: &EmployeeRepo{crud[models.Employee]{db}},
		Profiles:  &ProfileRepo{crud[models.Profile]{db}},
		Events:    &EventRepo{crud[models.CalendarEvent]{db}},
	}
}

// DB exposes the underlying connection for health checks.
func (r *Repository) DB() *gorm.DB { return r.db }

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// crud holds the operations shared by every relation. Associations are never
// written through: a record only stores its own columns and foreign keys.
type crud[T any] struct {
	db *gorm.DB
}

func (c crud[T]) conn(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx)
}

func (c crud[T]) get(ctx context.Context, id any, preload ...string) (*T, error) {
	var v T
	q := c.conn(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &v, nil
}

func (c crud[T]) create(ctx context.Context, v *T) error {
	return c.conn(ctx).Omit(clause.Associations).Create(v).Error
}

// update replaces every column of the row identified by id, keeping its
// creation time. apply receives the stored row before the write.
func (c crud[T]) update(ctx context.Context, id any, v *T, apply func(existing *T)) error {
	existing, err := c.get(ctx, id)
	if err != nil {
		return err
	}
	if apply != nil {
		apply(existing)
	}
	return c.conn(ctx).Omit(clause.Associations, "created_at").Save(v).Error
}

func (c crud[T]) delete(ctx context.Context, id any) error {
	var v T
	res := c.conn(ctx).Where("id = ?", id).Delete(&v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func listErr(relation string, err error) error {
	return fmt.Errorf("list %s: %w", relation, err)
}
