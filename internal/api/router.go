package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Custom package for middleware
	"finance_tracker/internal/service"    // Services behind the handlers

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Deps are the components the routes are wired to
type Deps struct {
	DB          *gorm.DB             // Store handle, used by the health check
	Auth        *service.AuthService // Authentication service
	Ledger      *service.Ledger      // Transaction ledger
	Analytics   *service.Analytics   // Analytics engine
	Cookie      CookieConfig         // Session cookie settings
	CORSOrigins []string             // Origins allowed with credentials
}

// RegisterRoutes mounts the JSON API under /api
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger()) // One log line per request

	api := r.Group("/api")
	api.Use(middleware.CORSMiddleware(d.CORSOrigins)) // Browser clients send cookies cross-origin

	// Public routes
	api.GET("/health", HealthHandler(d.DB))                                        // Liveness with a database ping
	api.POST("/register", RegisterHandler(d.Auth))                                 // Registration endpoint
	api.POST("/login", LoginHandler(d.Auth, d.Cookie))                             // Login endpoint
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) }) // Preflight

	// Session protected routes
	protected := api.Group("")
	protected.Use(middleware.SessionAuthMiddleware(d.Auth, d.Cookie.Name), middleware.CurrentUserMiddleware(d.Auth))
	protected.POST("/logout", LogoutHandler(d.Auth, d.Cookie))          // Logout endpoint
	protected.GET("/current_user", CurrentUserHandler())                // Current identity
	protected.GET("/transactions", ListTransactionsHandler(d.Ledger))   // Ledger listing
	protected.POST("/transactions", CreateTransactionHandler(d.Ledger)) // Ledger insert
	protected.GET("/analytics", SummaryHandler(d.Analytics))            // Totals and categories
	protected.GET("/analytics/monthly", MonthlyHandler(d.Analytics))    // Per-month breakdown
	protected.GET("/analytics/trends", TrendsHandler(d.Analytics))      // Trend metrics
	protected.GET("/analytics/cashflow", CashflowHandler(d.Analytics))  // Running balance
}

// HealthHandler reports whether the database is reachable
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB() // Underlying connection pool
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			respondError(c, err, "health")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
