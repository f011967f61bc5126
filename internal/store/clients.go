package store

import (
	"context"
	"strings"

	"github.com/diewo77/go-demenagement/internal/models"
	"gorm.io/gorm"
)

// ClientFilter narrows a client listing.
type ClientFilter struct {
	// Search matches name or contact, case-insensitively.
	Search string
}

// ClientRepo reads and writes the clients relation.
type ClientRepo struct{ crud[models.Client] }

func (r *ClientRepo) List(ctx context.Context, f ClientFilter) ([]models.Client, error) {
	q := r.conn(ctx).Order("name ASC").Order("id ASC")
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(contact) LIKE ?", like, like)
	}
	out := []models.Client{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("clients", err)
	}
	return out, nil
}

func (r *ClientRepo) Get(ctx context.Context, id uint) (*models.Client, error) {
	return r.get(ctx, id)
}

func (r *ClientRepo) Create(ctx context.Context, c *models.Client) error {
	return r.create(ctx, c)
}

func (r *ClientRepo) Update(ctx context.Context, c *models.Client) error {
	return r.update(ctx, c.ID, c, func(e *models.Client) { c.CreatedAt = e.CreatedAt })
}

// Delete removes the client only when no invoice or service references it.
func (r *ClientRepo) Delete(ctx context.Context, id uint) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Model(&models.Service{}).Where("client_id = ?", id).Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return ErrClientInUse
		}
		res := tx.Where("id = ?", id).Delete(&models.Client{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Match applies the filter to an already loaded client.
func (f ClientFilter) Match(c *models.Client) bool {
	s := strings.ToLower(strings.TrimSpace(f.Search))
	if s == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), s) || strings.Contains(strings.ToLower(c.Contact), s)
}
