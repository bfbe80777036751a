package middleware

import (
	"net/http" // HTTP status codes
	"slices"   // Origin lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORSMiddleware lets the listed browser origins call the API with credentials
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin") // Requesting origin, empty for same-origin calls
		if origin != "" && slices.Contains(origins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin) // Echo the origin, wildcard is not allowed with credentials
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
		}
		// Answer preflight requests directly
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
