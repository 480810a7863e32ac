package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs its outcome
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader) // Reuse an upstream id if present
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString() // Otherwise mint one
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,                        // Correlation id
			"method":     c.Request.Method,                 // HTTP method
			"path":       c.FullPath(),                     // Route pattern
			"status":     c.Writer.Status(),                // Response status
			"latency_ms": time.Since(start).Milliseconds(), // Handling time
		}).Info("Request handled")
	}
}
