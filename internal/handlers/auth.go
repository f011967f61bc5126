package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-demenagement/auth"
	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/services"
)

type AuthHandler struct {
	svc      *services.AuthService
	sessions *auth.Manager
}

func NewAuthHandler(svc *services.AuthService, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login accepts a JSON body or a form post and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if !decode(w, r, &req) {
			return
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}
	p, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if err != nil {
		httpx.Error(w, err, "login")
		return
	}
	h.sessions.CreateSession(w, p.ID)
	httpx.JSON(w, http.StatusOK, p)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the logged-in profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	p, err := h.svc.Profile(r.Context(), principal.ID)
	if err != nil {
		httpx.Error(w, err, "me")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
