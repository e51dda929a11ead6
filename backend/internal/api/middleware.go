package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kintree/backend/internal/audit"
	"kintree/backend/internal/model"
)

const sessionCookie = "kintree_session"

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requireAuth resolves the session token (cookie or bearer header) to an
// account and aborts with 401 when it cannot.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := s.codec.Verify(sessionToken(c))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		u, err := s.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

// requireTreeRole resolves the caller's effective role on the :treeID param
// and aborts unless it meets min. The resolved role is left in the context.
func (s *Server) requireTreeRole(min model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		role, err := s.access.RequireRole(c.Request.Context(), u.ID, c.Param("treeID"), min)
		if err != nil {
			s.abortError(c, err)
			return
		}
		c.Set("treeRole", role)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func currentUser(c *gin.Context) *model.User {
	u, _ := c.MustGet("user").(*model.User)
	return u
}

func actorFrom(c *gin.Context) audit.Actor {
	u := currentUser(c)
	return audit.Actor{ID: u.ID, Name: u.DisplayName}
}
