package middleware

import (
	"net/http" // HTTP status codes

	"shared_pockets/internal/domain" // Importing domain models
	"shared_pockets/internal/store"  // Storage interface

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the caller's role in the store on each request
func AdminOnlyMiddleware(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID := c.GetString(ExternalIDKey) // Set by JWTAuthMiddleware
		// Check if an identity exists in context
		if externalID == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := st.UserByExternalID(c.Request.Context(), externalID) // Fetch user from store
		// Unknown users and non-admins are both forbidden
		if err != nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
