package store

import (
	"context"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
)

// ServiceFilter narrows a service listing. Zero fields do not filter.
type ServiceFilter struct {
	ClientID uint
	Status   models.ServiceStatus
	Range    finance.DateRange
}

// ServiceRepo reads and writes the prestations relation.
type ServiceRepo struct{ crud[models.Service] }

func (r *ServiceRepo) List(ctx context.Context, f ServiceFilter) ([]models.Service, error) {
	q := r.conn(ctx).Preload("Client").Order("scheduled_at ASC").Order("id ASC")
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	from, until := f.Range.Bounds()
	if !from.IsZero() {
		q = q.Where("scheduled_at >= ?", from)
	}
	if !until.IsZero() {
		q = q.Where("scheduled_at < ?", until)
	}
	out := []models.Service{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("prestations", err)
	}
	for i := range out {
		flattenService(&out[i])
	}
	return out, nil
}

func (r *ServiceRepo) Get(ctx context.Context, id uint) (*models.Service, error) {
	s, err := r.get(ctx, id, "Client")
	if err != nil {
		return nil, err
	}
	flattenService(s)
	return s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *models.Service) error {
	if err := r.create(ctx, s); err != nil {
		return err
	}
	return r.fillClientName(ctx, s)
}

func (r *ServiceRepo) Update(ctx context.Context, s *models.Service) error {
	if err := r.update(ctx, s.ID, s, func(e *models.Service) { s.CreatedAt = e.CreatedAt }); err != nil {
		return err
	}
	return r.fillClientName(ctx, s)
}

func (r *ServiceRepo) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}

func (r *ServiceRepo) fillClientName(ctx context.Context, s *models.Service) error {
	var c models.Client
	err := r.conn(ctx).Select("id", "name").Where("id = ?", s.ClientID).Limit(1).Find(&c).Error
	if err != nil {
		return err
	}
	s.ClientName = c.Name
	return nil
}

// flattenService copies the joined client into the DTO fields.
func flattenService(s *models.Service) {
	if s.Client != nil {
		s.ClientName = s.Client.Name
	}
	s.Client = nil
}

// IsZero reports whether the filter selects every service.
func (f ServiceFilter) IsZero() bool {
	return f.ClientID == 0 && f.Status == "" && f.Range.IsZero()
}

// Match applies the filter to an already loaded service.
func (f ServiceFilter) Match(s *models.Service) bool {
	if f.ClientID != 0 && s.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return f.Range.IsZero() || f.Range.Contains(s.ScheduledAt)
}
