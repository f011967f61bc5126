package store

import (
	"context"
	"strings"

	"github.com/diewo77/go-demenagement/internal/models"
)

// ProfileRepo reads and writes the profiles relation.
type ProfileRepo struct{ crud[models.Profile] }

func (r *ProfileRepo) Get(ctx context.Context, id uint) (*models.Profile, error) {
	return r.get(ctx, id)
}

// GetByEmail looks a profile up by its login email, case-insensitively.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := r.conn(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&p).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

func (r *ProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	return r.create(ctx, p)
}

func (r *ProfileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&models.Profile{}).Count(&n).Error
	return n, err
}
