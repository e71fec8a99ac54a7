package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
	ReadinessStateOptional ReadinessState = "optional"
)

type ReadinessCheck struct {
	ID     string         `json:"id"`
	Status ReadinessState `json:"status"`
	Error  string         `json:"error,omitempty"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Checks      []ReadinessCheck `json:"checks"`
}

// @Summary      Liveness
// @Tags         system
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /healthz [get]
func (s *Server) Health(c *gin.Context) {
	respondData(c, gin.H{"status": "ok"})
}

// @Summary      Readiness
// @Description  Reports whether the database and, when enabled, redis are reachable
// @Tags         system
// @Produce      json
// @Success      200  {object}  DataResponse
// @Failure      503  {object}  DataResponse
// @Router       /readyz [get]
func (s *Server) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := ReadinessResponse{SystemState: ReadinessStateReady}

	db := ReadinessCheck{ID: "database", Status: ReadinessStateReady}
	if sqlDB, err := s.db.DB(); err != nil {
		db.Status, db.Error = ReadinessStateNotReady, err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db.Status, db.Error = ReadinessStateNotReady, err.Error()
	}
	resp.Checks = append(resp.Checks, db)

	cache := ReadinessCheck{ID: "redis", Status: ReadinessStateOptional}
	if s.redis != nil {
		cache.Status = ReadinessStateReady
		if err := s.redis.Ping(ctx).Err(); err != nil {
			cache.Status, cache.Error = ReadinessStateNotReady, err.Error()
		}
	}
	resp.Checks = append(resp.Checks, cache)

	for _, check := range resp.Checks {
		if check.Status == ReadinessStateNotReady {
			resp.SystemState = ReadinessStateNotReady
		}
	}
	if resp.SystemState != ReadinessStateReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{"data": resp})
		return
	}
	respondData(c, resp)
}
