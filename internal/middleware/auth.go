package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/singulaarityy/Ferrum-Store/internal/auth"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
)

// Auth resolves the caller's identity from a bearer token. Requests without
// an Authorization header pass through anonymous: whether anonymous access is
// acceptable is decided per resource, not here. A header that is present but
// does not verify is rejected with 401 rather than silently downgraded.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "malformed Authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ident := &models.Identity{UserID: claims.GetUserID(), Role: claims.Role}
			next.ServeHTTP(w, httputil.WithIdentity(r, ident))
		})
	}
}
