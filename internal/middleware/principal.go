package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = contextKey("userID")

// PrincipalHeader carries the authenticated user ID, set by the fronting
// auth proxy. Authentication itself happens upstream of this service.
const PrincipalHeader = "X-User-ID"

// PrincipalMiddleware extracts the authenticated principal from the request
// and rejects requests without one.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(PrincipalHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and whether it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}
