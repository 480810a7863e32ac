package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"shared_pockets/internal/service" // Identity context helpers
	"shared_pockets/internal/utils"   // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// ExternalIDKey is the gin context key holding the caller's external identity
const ExternalIDKey = "externalID"

// JWTAuthMiddleware validates bearer tokens and puts the external identity on
// both the gin context and the request context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		externalID, err := utils.ParseJWT(tokenStr, secret)   // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Store identity in gin context and on the request context
		c.Set(ExternalIDKey, externalID)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), externalID))
		c.Next() // Proceed to the next handler
	}
}
