package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
	"github.com/shopspring/decimal"
)

// ServiceInput is the create/update payload of a service (prestation).
type ServiceInput struct {
	ClientID              uint                 `json:"client_id"`
	Type                  string               `json:"type"`
	Description           string               `json:"description"`
	OriginAddress         string               `json:"origin_address"`
	DestinationAddress    string               `json:"destination_address"`
	ScheduledAt           Date                 `json:"scheduled_at"`
	Status                models.ServiceStatus `json:"status"`
	RequiredStaffCount    int                  `json:"required_staff_count"`
	RequiredHandlersCount int                  `json:"required_handlers_count"`
	Price                 Amount               `json:"price"`
}

// ServiceService manages the scheduled services.
type ServiceService struct{ Deps }

func NewServiceService(d Deps) *ServiceService { return &ServiceService{d} }

func (s *ServiceService) List(ctx context.Context, f store.ServiceFilter) ListResult[models.Service] {
	return cachedList(ctx, s.Fallback, fallback.KeyServices, !f.IsZero(), f.Match,
		func(ctx context.Context) ([]models.Service, error) { return s.Repo.Services.List(ctx, store.ServiceFilter{}) },
		func(ctx context.Context) ([]models.Service, error) { return s.Repo.Services.List(ctx, f) },
	)
}

func (s *ServiceService) Get(ctx context.Context, id uint) (*models.Service, error) {
	return s.Repo.Services.Get(ctx, id)
}

func (s *ServiceService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	svc := &models.Service{}
	if err := s.apply(ctx, svc, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Services.Create(ctx, svc); err != nil {
		logWrite("ServiceService.Create", "create service", in.Type, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationServices, feed.OpInsert, svc.ID)
	return svc, nil
}

func (s *ServiceService) Update(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	svc, err := s.Repo.Services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, svc, in); err != nil {
		return nil, err
	}
	if err := s.Repo.Services.Update(ctx, svc); err != nil {
		logWrite("ServiceService.Update", "update service", id, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationServices, feed.OpUpdate, id)
	return svc, nil
}

func (s *ServiceService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Services.Delete(ctx, id); err != nil {
		logWrite("ServiceService.Delete", "delete service", id, err)
		return err
	}
	s.notify(ctx, feed.RelationServices, feed.OpDelete, id)
	return nil
}

func (s *ServiceService) apply(ctx context.Context, svc *models.Service, in ServiceInput) error {
	in.ScheduledAt = in.ScheduledAt.In(s.loc())
	v := validation.Violations{}
	validation.RequiredID("client_id", in.ClientID, v)
	validation.Required("type", in.Type, v)
	if len(in.Type) > 100 {
		v["type"] = "too_long"
	}
	switch {
	case in.ScheduledAt.Invalid:
		v["scheduled_at"] = "invalid_date"
	case !in.ScheduledAt.Set && svc.ScheduledAt.IsZero():
		v["scheduled_at"] = "required"
	}
	status := in.Status
	if status == "" {
		status = svc.Status
		if status == "" {
			status = models.ServiceStatusPending
		}
	}
	if !status.Valid() {
		v["status"] = "invalid_value"
	}
	validation.NonNegativeInt("required_staff_count", in.RequiredStaffCount, v)
	validation.NonNegativeInt("required_handlers_count", in.RequiredHandlersCount, v)
	if in.Price.Invalid {
		v["price"] = "not_a_number"
	} else if in.Price.Set {
		validation.NonNegativeDecimal("price", in.Price.Value, v)
	}
	if in.ClientID != 0 {
		if _, err := s.Repo.Clients.Get(ctx, in.ClientID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			v["client_id"] = "not_found"
		}
	}
	if err := httpx.Invalid(v); err != nil {
		return err
	}

	svc.ClientID = in.ClientID
	svc.Type = strings.TrimSpace(in.Type)
	svc.Description = strings.TrimSpace(in.Description)
	svc.OriginAddress = strings.TrimSpace(in.OriginAddress)
	svc.DestinationAddress = strings.TrimSpace(in.DestinationAddress)
	if in.ScheduledAt.Set {
		svc.ScheduledAt = in.ScheduledAt.Time
	}
	svc.Status = status
	svc.RequiredStaffCount = in.RequiredStaffCount
	svc.RequiredHandlersCount = in.RequiredHandlersCount
	svc.Price = decimal.NullDecimal{Decimal: in.Price.Value, Valid: in.Price.Set}
	return nil
}
