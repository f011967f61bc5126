package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, m *Manager, id uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	m.CreateSession(rec, id)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies", len(cookies))
	}
	return cookies[0]
}

func TestParseSession(t *testing.T) {
	m := NewManager("secret", time.Hour, nil)
	c := sessionCookie(t, m, 42)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if id, ok := m.ParseSession(req); !ok || id != 42 {
		t.Fatalf("ParseSession = %d, %v", id, ok)
	}

	other := NewManager("another", time.Hour, nil)
	if _, ok := other.ParseSession(req); ok {
		t.Error("cookie accepted with a different secret")
	}

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "1" + c.Value[2:]})
	if _, ok := m.ParseSession(tampered); ok {
		t.Error("tampered cookie accepted")
	}
}

func TestParseSession_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute, nil)
	c := sessionCookie(t, m, 7)
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := m.ParseSession(req); ok {
		t.Error("expired session accepted")
	}
}

func TestMiddlewareAndGuards(t *testing.T) {
	m := NewManager("secret", time.Hour, func(_ context.Context, id uint) (Principal, bool) {
		switch id {
		case 1:
			return Principal{ID: 1, Admin: true}, true
		case 2:
			return Principal{ID: 2}, true
		}
		return Principal{}, false
	})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		id      uint
		guard   func(http.Handler) http.Handler
		want    int
		cleared bool
	}{
		{"anonymous", 0, RequireAuth, http.StatusUnauthorized, false},
		{"staff auth", 2, RequireAuth, http.StatusNoContent, false},
		{"staff admin route", 2, RequireAdmin, http.StatusForbidden, false},
		{"admin route", 1, RequireAdmin, http.StatusNoContent, false},
		{"deleted profile", 9, RequireAuth, http.StatusUnauthorized, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
			if tt.id != 0 {
				req.AddCookie(sessionCookie(t, m, tt.id))
			}
			rec := httptest.NewRecorder()
			m.Middleware(tt.guard(ok)).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			cleared := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == sessionCookieName && c.Value == "" {
					cleared = true
				}
			}
			if cleared != tt.cleared {
				t.Errorf("cleared = %v, want %v", cleared, tt.cleared)
			}
		})
	}
}
