package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/orgcontext"
	"go.uber.org/zap"
)

const (
	headerOrgID          = "X-Org-ID"
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"
	contextRequestIDKey  = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func (s *Server) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (s *Server) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(contextRequestIDKey)),
		}
		if orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context()); ok {
			fields = append(fields, zap.String("org_id", orgID.String()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			s.log.Error("request failed", fields...)
		case status >= 400:
			s.log.Info("request rejected", fields...)
		default:
			s.log.Debug("request served", fields...)
		}
	}
}

// OrgRequired scopes the request to the organization named by X-Org-ID.
func (s *Server) OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgcontext.Parse(c.GetHeader(headerOrgID))
		if !ok {
			AbortWithError(c, ErrMissingOrganization)
			return
		}
		c.Request = c.Request.WithContext(orgcontext.WithOrgID(c.Request.Context(), orgID))
		c.Next()
	}
}

func idempotencyKeyFromHeader(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
}
