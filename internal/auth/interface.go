package auth

import "github.com/singulaarityy/Ferrum-Store/internal/domain/models"

// TokenVerifier validates a bearer token and returns the parsed claims.
// The abstraction keeps the middleware agnostic to how tokens are minted.
type TokenVerifier interface {
	// VerifyToken validates a JWT string and returns its claims.
	// Returns an error if the token is invalid, expired, or mis-signed.
	VerifyToken(tokenString string) (*models.Claims, error)
}

// TokenIssuer mints bearer tokens at login.
type TokenIssuer interface {
	// IssueToken creates a signed token for a user id and role.
	IssueToken(userID, role string) (string, error)
}
