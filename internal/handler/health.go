package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/singulaarityy/Ferrum-Store/internal/httputil"
)

// HealthHandler reports readiness of the backing stores.
type HealthHandler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb}
}

// Check pings Postgres and Redis
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "up", "cache": "up"}
	code := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	// The cache is an accelerator, not a dependency: report it but stay 200.
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		status["cache"] = "down"
	}

	httputil.RespondJSON(w, code, status)
}
