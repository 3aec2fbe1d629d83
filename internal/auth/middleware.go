package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireAuth verifies the bearer token and injects identity into the
// request context. It is a pure gate: no storage access, so it is
// cheap to apply on every protected route. Role checks belong to
// internal/rbac and must be composed after this middleware.
//
// Every verification failure collapses to the same 401 body so
// clients cannot tell expired from malformed from bad-signature.
func RequireAuth(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided",
			})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token",
			})
			return
		}

		ctx := WithIdentity(c.Request.Context(), claims.UserID, claims.Email, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
