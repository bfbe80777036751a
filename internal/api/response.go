package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/apperr"     // Error taxonomy
	"finance_tracker/internal/middleware" // Context keys

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError writes {"error": message} with the status of the error's kind
func respondError(c *gin.Context, err error, action string) {
	status := apperr.Status(err) // Map error kind to HTTP status
	// Unclassified failures are logged with their cause, clients only see a generic message
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"user_id": c.GetUint(middleware.UserIDKey), // Caller, zero when anonymous
			"action":  action,                          // What was being attempted
			"error":   err.Error(),                     // Error message
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
