package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zawamu/auth"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userId"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTAuth requires a bearer token and stores its user id under UserIDKey.
func JWTAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip middleware for OPTIONS requests (CORS preflight)
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No token, authorization denied",
			})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token is not valid",
				"error":   "Format should be: Bearer <token>",
			})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token is not valid",
				"error":   err.Error(),
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
