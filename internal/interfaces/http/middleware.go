package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/doc-workflow/internal/auth"
)

const actorKey = "actor"

// loggingMiddleware logs every request after it completes
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// authenticate attaches the bearer token's actor to the context.
// Requests without a token pass through anonymously; a bad token is rejected.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || s.tokens == nil {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abort(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		actor, err := s.tokens.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// requireActor rejects anonymous requests
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c) == nil {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// requireRole rejects requests whose actor lacks role
func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		if actor == nil {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !auth.CheckPermission(actor, role) {
			abort(c, http.StatusForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) *auth.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*auth.Actor)
	return actor
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}
