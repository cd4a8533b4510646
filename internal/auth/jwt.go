package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// HS256Authority issues and verifies HS256 tokens with a shared secret.
// It implements both TokenIssuer and TokenVerifier.
type HS256Authority struct {
	secret []byte
	expiry time.Duration
}

// NewHS256Authority creates a token authority from a shared secret.
func NewHS256Authority(secret string, expiry time.Duration) (*HS256Authority, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HS256Authority{secret: []byte(secret), expiry: expiry}, nil
}

// IssueToken creates a signed token carrying the user id and role.
func (a *HS256Authority) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a token and extracts its claims. All failures map to
// ErrUnauthenticated; callers must not learn why a credential was rejected.
func (a *HS256Authority) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Pin the algorithm; anything else is an algorithm-confusion
		// attempt.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	return claims, nil
}
