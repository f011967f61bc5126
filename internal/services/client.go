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

// ClientService manages clients. Deleting a client that invoices or services
// still reference is refused.
type ClientService struct{ Deps }

func NewClientService(d Deps) *ClientService { return &ClientService{d} }

func (s *ClientService) List(ctx context.Context, f store.ClientFilter) ListResult[models.Client] {
	return cachedList(ctx, s.Fallback, fallback.KeyClients, f.Search != "", f.Match,
		func(ctx context.Context) ([]models.Client, error) { return s.Repo.Clients.List(ctx, store.ClientFilter{}) },
		func(ctx context.Context) ([]models.Client, error) { return s.Repo.Clients.List(ctx, f) },
	)
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return s.Repo.Clients.Get(ctx, id)
}

func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.Contact = strings.TrimSpace(c.Contact)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

func (s *ClientService) Create(ctx context.Context, c *models.Client) error {
	normalizeClient(c)
	if err := httpx.Invalid(validation.Struct(c)); err != nil {
		return err
	}
	c.ID = 0
	if err := s.Repo.Clients.Create(ctx, c); err != nil {
		logWrite("ClientService.Create", "create client", c.Name, err)
		return err
	}
	s.notify(ctx, feed.RelationClients, feed.OpInsert, c.ID)
	return nil
}

func (s *ClientService) Update(ctx context.Context, id uint, c *models.Client) error {
	normalizeClient(c)
	if err := httpx.Invalid(validation.Struct(c)); err != nil {
		return err
	}
	c.ID = id
	if err := s.Repo.Clients.Update(ctx, c); err != nil {
		logWrite("ClientService.Update", "update client", id, err)
		return err
	}
	s.notify(ctx, feed.RelationClients, feed.OpUpdate, id)
	return nil
}

// Delete returns store.ErrClientInUse when the client is still referenced.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Clients.Delete(ctx, id); err != nil {
		logWrite("ClientService.Delete", "delete client", id, err)
		return err
	}
	s.notify(ctx, feed.RelationClients, feed.OpDelete, id)
	return nil
}
