package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"growup-backend/auth"
	"growup-backend/config"
	"growup-backend/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"statusCode": http.StatusUnauthorized,
		"code":       "UNAUTHORIZED",
		"message":    message,
	})
}

// AuthMiddleware requires a valid Bearer token and stores its id and role on
// the context. With cfg.SkipAuth every request passes as an admin.
func AuthMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.SkipAuth {
			c.Set(ContextUserRole, models.RoleAdmin)
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Not authorized, no token")
			return
		}

		claims, err := auth.ValidateToken(cfg, token)
		if err != nil {
			logger.Warn("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			unauthorized(c, "Not authorized, token failed")
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth records the caller's id and role when a valid Bearer token is
// present and lets anonymous requests through unchanged.
func OptionalAuth(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.SkipAuth {
			c.Set(ContextUserRole, models.RoleAdmin)
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := auth.ValidateToken(cfg, token)
		if err != nil {
			logger.Warn("optional token ignored", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}
		c.Set(ContextUserID, claims.ID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.SkipAuth {
			c.Next()
			return
		}
		role, exists := c.Get(ContextUserRole)
		if !exists {
			unauthorized(c, "Not authorized, no token")
			return
		}
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":    false,
				"statusCode": http.StatusForbidden,
				"code":       "FORBIDDEN",
				"message":    "Admin access required.",
			})
			return
		}
		c.Next()
	}
}
