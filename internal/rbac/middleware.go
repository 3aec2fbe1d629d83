package rbac

import (
	"net/http"

	"forms-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects callers whose role is not admin.
// It assumes auth.RequireAuth already ran and attached identity; a
// request with no role in context is treated as unauthenticated, not
// forbidden. It never re-verifies the token and never touches storage.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}
		if !IsAdmin(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}
