package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/singulaarityy/Ferrum-Store/internal/auth"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
)

func TestAuthMiddleware(t *testing.T) {
	authority, err := auth.NewHS256Authority("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var seen *models.Identity
	var called bool
	chain := Auth(authority, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = httputil.GetIdentity(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("no header passes through anonymous", func(t *testing.T) {
		called, seen = false, nil
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, httptest.NewRequest("GET", "/api/folders/root", nil))
		if !called {
			t.Fatal("handler not reached")
		}
		if seen != nil {
			t.Errorf("identity = %+v, want nil", seen)
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("valid bearer token resolves identity", func(t *testing.T) {
		called, seen = false, nil
		token, err := authority.IssueToken("user-1", models.RoleStaff)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest("GET", "/api/folders/root", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if seen == nil || seen.UserID != "user-1" || seen.Role != models.RoleStaff {
			t.Errorf("identity = %+v", seen)
		}
	})

	t.Run("garbage token rejected with 401", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("GET", "/api/folders/root", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if called {
			t.Error("handler reached with invalid token")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("content type = %q", ct)
		}
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("GET", "/api/folders/root", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		if called {
			t.Error("handler reached with non-bearer header")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
