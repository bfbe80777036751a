package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestLogger logs one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start time
		c.Next()            // Run the rest of the chain first

		path := c.FullPath() // Route pattern
		if path == "" {
			path = c.Request.URL.Path // Unmatched routes have no pattern
		}
		fields := logrus.Fields{
			"method":    c.Request.Method,  // HTTP method
			"path":      path,              // Request path
			"status":    c.Writer.Status(), // Response status
			"latency":   time.Since(start), // Time spent handling the request
			"client_ip": c.ClientIP(),      // Caller address
		}
		if userID := c.GetUint(UserIDKey); userID != 0 {
			fields["user_id"] = userID // Authenticated caller
		}
		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
