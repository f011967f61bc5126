package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-demenagement/auth"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash keeps the timing of a failed lookup close to a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

type AuthService struct{ Deps }

func NewAuthService(d Deps) *AuthService { return &AuthService{d} }

// Login checks the credentials and returns the matching profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	p, err := s.Repo.Profiles.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		logWrite("AuthService.Login", "lookup profile", email, err)
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// Profile returns the profile behind a session.
func (s *AuthService) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.Repo.Profiles.Get(ctx, id)
}

// Lookup resolves a session's profile id for the session middleware.
func (s *AuthService) Lookup(ctx context.Context, id uint) (auth.Principal, bool) {
	p, err := s.Repo.Profiles.Get(ctx, id)
	if err != nil {
		return auth.Principal{}, false
	}
	return auth.Principal{ID: p.ID, Admin: p.IsAdmin()}, true
}
