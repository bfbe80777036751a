package middleware

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/apperr"  // Error taxonomy
	"finance_tracker/internal/service" // User lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CurrentUserMiddleware loads the session's user from the database on each request.
// Sessions that outlive their user are rejected.
func CurrentUserMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(UserIDKey) // Get userID from context
		// Check if userID exists in context
		if userID == 0 {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := auth.CurrentUser(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			// Only unexpected failures are worth a log line
			if apperr.Status(err) == http.StatusInternalServerError {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // User ID
					"error":   err.Error(), // Error message
				}).Error("Failed to load current user")
			}
			c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.Set(UserKey, user) // Store the public identity in context
		c.Next()             // Proceed to the next handler
	}
}
