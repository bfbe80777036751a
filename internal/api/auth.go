package api

import (
	"net/http" // HTTP status codes
	"time"     // Cookie lifetime

	"finance_tracker/internal/apperr"     // Error taxonomy
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Context keys
	"finance_tracker/internal/service"    // Authentication service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request and Response structs
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string        // Cookie name
	Secure bool          // HTTPS only
	TTL    time.Duration // Lifetime, matches the session
}

// RegisterHandler creates a new user account
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate, hash the password and create the user
		_, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username, // Requested username
			Email:    req.Email,    // Email, normalised by the service
			Password: req.Password, // Plaintext, only the hash is stored
		})
		if err != nil {
			respondError(c, err, "register") // Validation, conflict or internal error
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and opens a cookie-bound session
func LoginHandler(auth *service.AuthService, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password) // Check credentials
		if err != nil {
			respondError(c, err, "login") // Bad credentials map to 401
			return
		}
		// Hand the session token to the browser as an HttpOnly cookie
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, res.Token, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)
		// Return the public identity
		c.JSON(http.StatusOK, res.User)
	}
}

// LogoutHandler invalidates the current session
func LogoutHandler(auth *service.AuthService, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(middleware.SessionIDKey) // Set by SessionAuthMiddleware
		if err := auth.Logout(c.Request.Context(), sessionID); err != nil {
			respondError(c, err, "logout")
			return
		}
		// Expire the cookie on the client as well
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// CurrentUserHandler returns the identity bound to the session
func CurrentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.Get(middleware.UserKey) // Loaded by CurrentUserMiddleware
		if !ok {
			respondError(c, apperr.Auth("Unauthorized"), "current_user")
			return
		}
		c.JSON(http.StatusOK, user.(domain.PublicUser))
	}
}
