package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// OperatorAuthMiddleware validates platform-operator requests. Tenant
// activation is a cross-tenant operation, so it is guarded by a shared
// operator secret rather than a tenant user's token.
func OperatorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Expected 'Bearer <token>'",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Empty token",
			})
			c.Abort()
			return
		}

		expectedSecret := os.Getenv("OPERATOR_API_SECRET")
		if expectedSecret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Operator API secret not configured",
			})
			c.Abort()
			return
		}

		if token != expectedSecret {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid operator token",
			})
			c.Abort()
			return
		}

		c.Set("operator_auth", true)

		c.Next()
	}
}
