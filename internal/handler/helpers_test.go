package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("name: %w", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("folder x: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("share: %w", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("email taken: %w", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("presign: %w", domain.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("something unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handleError(rec, tt.err)
		if rec.Code != tt.want {
			t.Errorf("handleError(%v) = %d, want %d", tt.err, rec.Code, tt.want)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("content type = %q", ct)
		}

		var problem httputil.ProblemDetail
		if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
			t.Fatalf("body is not a problem document: %v", err)
		}
		if problem.Status != tt.want {
			t.Errorf("problem.status = %d, want %d", problem.Status, tt.want)
		}
	}
}

// Internal detail must not leak through 401/403 responses.
func TestHandleErrorHidesAuthDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, fmt.Errorf("user alice lacks grant on folder 42: %w", domain.ErrForbidden))

	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatal(err)
	}
	if problem.Detail != "access denied" {
		t.Errorf("detail = %q, want generic message", problem.Detail)
	}
}
