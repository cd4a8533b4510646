package handler

import (
	"log/slog"
	"net/http"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
	"github.com/singulaarityy/Ferrum-Store/internal/service"
)

// UserHandler handles account and session HTTP requests
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// Register creates a new account
// POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a bearer token
// POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Usage returns the caller's stored-bytes counter
// GET /api/users/me/usage
func (h *UserHandler) Usage(w http.ResponseWriter, r *http.Request) {
	bytes, err := h.service.Usage(r.Context(), httputil.GetIdentity(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"bytes_stored": bytes})
}
