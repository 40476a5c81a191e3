// Copyright (c) 2026 BookVault. All rights reserved.

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bookvault/api/internal/platform/constants"
	"github.com/bookvault/api/internal/platform/postgres"
	"github.com/bookvault/api/internal/platform/redis"
	"github.com/bookvault/api/internal/platform/respond"
)

// healthHandler serves the liveness and readiness probes.
type healthHandler struct {
	pool  *pgxpool.Pool
	cache *goredis.Client
}

func newHealthHandler(pool *pgxpool.Pool, cache *goredis.Client) *healthHandler {
	return &healthHandler{pool: pool, cache: cache}
}

// liveness reports that the process is up. It touches no dependencies.
func (h *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness reports whether the backing stores are reachable.
func (h *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := postgres.Ping(ctx, h.pool); err != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}

	if err := redis.Ping(ctx, h.cache); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		constants.FieldStatus: overall,
		constants.FieldChecks: checks,
	})
}
