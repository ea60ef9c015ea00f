package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUsername is the gin context key the middleware stores the token
// subject under.
const ContextUsername = "username"

// RequireAuth rejects requests without a valid bearer token and attaches
// the token subject to the context. Every failure gets the same generic
// response.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		subject, err := VerifyToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			return
		}
		c.Set(ContextUsername, subject)
		c.Next()
	}
}
