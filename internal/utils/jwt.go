package utils

import (
	"errors" // Claim validation errors
	"time"   // Token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrMissingClaims is returned for a signed token without a session binding
var ErrMissingClaims = errors.New("token is missing session claims")

// Claims binds a signed token to a server-side session
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	SessionID            string `json:"sid"`     // Server-side session identifier
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateSessionToken creates a signed token for a session
func GenerateSessionToken(userID uint, sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID:    userID,    // Custom claim for user ID
		SessionID: sessionID, // Session the token refers to
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expires with the session
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseSessionToken parses and validates a session token string
func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	if claims.UserID == 0 || claims.SessionID == "" {
		return nil, ErrMissingClaims
	}
	return claims, nil
}
