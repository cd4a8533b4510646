package httputil

import (
	"context"
	"net/http"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity attaches the caller's identity to the request context.
func WithIdentity(r *http.Request, ident *models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, ident)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the caller's identity from the request context.
// A nil result means the request is anonymous.
func GetIdentity(r *http.Request) *models.Identity {
	ident, _ := r.Context().Value(identityKey).(*models.Identity)
	return ident
}
