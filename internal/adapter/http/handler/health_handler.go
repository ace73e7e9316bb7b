package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool        Pinger
	redisClient RedisPinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool Pinger, redisClient RedisPinger) *HealthHandler {
	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 when postgres and redis both answer a ping, and 503
// with the failing checks otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": checkResult(h.pool.Ping(ctx)),
		"redis":    checkResult(h.redisClient.Ping(ctx).Err()),
	}

	status := http.StatusOK
	checks["status"] = "ready"
	for name, result := range checks {
		if name != "status" && result != "ok" {
			status = http.StatusServiceUnavailable
			checks["status"] = "unavailable"
		}
	}

	writeJSON(w, status, checks)
}

func checkResult(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
