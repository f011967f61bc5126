package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the default admin profile when no profile uses email yet.
// Running it again changes nothing.
func Seed(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("seed: admin email and password are required")
	}
	var existing models.Profile
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed: lookup admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}
	admin := models.Profile{Email: email, FullName: "Administrator", Role: models.ProfileRoleAdmin, Password: string(hash)}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}
	logging.Get().WithField("module", "db").WithField("email", email).Info("default admin profile created")
	return nil
}
