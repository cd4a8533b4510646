package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	a, err := NewHS256Authority("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := a.IssueToken("user-1", "staff")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.GetUserID() != "user-1" {
		t.Errorf("user id = %q, want user-1", claims.GetUserID())
	}
	if claims.Role != "staff" {
		t.Errorf("role = %q, want staff", claims.Role)
	}
}

func TestVerifyRejections(t *testing.T) {
	a, _ := NewHS256Authority("test-secret", time.Hour)
	other, _ := NewHS256Authority("other-secret", time.Hour)
	expired, _ := NewHS256Authority("test-secret", -time.Minute)

	wrongKey, _ := other.IssueToken("user-1", "staff")
	expiredToken, _ := expired.IssueToken("user-1", "staff")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong key", wrongKey},
		{"expired", expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.VerifyToken(tt.token)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := NewHS256Authority("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
