package handler

import (
	"context"
	"net/http"

	"github.com/shegergsm/lookup-gateway/internal/config"
	"github.com/shegergsm/lookup-gateway/internal/database"
	"github.com/shegergsm/lookup-gateway/internal/redis"
)

type StatusHandler struct {
	db    *database.DB
	redis *redis.Client
}

func NewStatusHandler(db *database.DB, redisClient *redis.Client) *StatusHandler {
	return &StatusHandler{db: db, redis: redisClient}
}

// Status handles GET /api/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
	defer cancel()

	dbOK := h.db.Ping(ctx) == nil
	redisOK := h.redis.Ping(ctx).Err() == nil

	status := http.StatusOK
	overall := "ok"
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	writeJSON(w, status, map[string]any{
		"status": overall,
		"checks": map[string]bool{
			"database": dbOK,
			"redis":    redisOK,
		},
	})
}
