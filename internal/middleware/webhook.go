package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Secret hash comparison
)

// WebhookSecretHeader carries the shared secret on identity provider calls
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecretMiddleware admits only requests whose secret matches the
// configured bcrypt hash. An empty hash rejects everything.
func WebhookSecretMiddleware(secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(WebhookSecretHeader) // Shared secret sent by the provider
		if secretHash == "" || secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Compare provided secret with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
