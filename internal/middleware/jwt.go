package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"finance_tracker/internal/apperr"  // Error taxonomy
	"finance_tracker/internal/service" // Session verification

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the auth middlewares
const (
	UserIDKey    = "userID"    // uint, id of the authenticated user
	SessionIDKey = "sessionID" // string, id of the live session
	UserKey      = "user"      // domain.PublicUser, loaded by CurrentUserMiddleware
)

// SessionAuthMiddleware validates the session token and extracts user information.
// The token is read from the session cookie, or from a Bearer Authorization header.
func SessionAuthMiddleware(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c, cookieName) // Find the token in cookie or header
		// Check if a token was sent at all
		if tokenStr == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), tokenStr) // Verify token and live session
		if err != nil {
			// Expired, revoked or forged sessions are all reported the same way
			c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.Set(UserIDKey, claims.UserID)       // Store userID in context
		c.Set(SessionIDKey, claims.SessionID) // Store sessionID in context
		c.Next()                              // Proceed to the next handler
	}
}

// sessionToken returns the token carried by the request, cookie first
func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
