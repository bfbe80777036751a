package config

import (
	"errors"  // Validation errors
	"fmt"     // DSN formatting
	"strings" // Origin list parsing
	"time"    // Session lifetime

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment lookup with defaults
)

// Supported database drivers
const (
	DriverSQLite = "sqlite" // Embedded SQLite file
	DriverMySQL  = "mysql"  // MySQL server
)

// Config holds the application configuration
type Config struct {
	AppPort      string        // Application port
	DBDriver     string        // Database driver: sqlite or mysql
	DBPath       string        // SQLite database file
	DBUser       string        // Database user
	DBPassword   string        // Database password
	DBHost       string        // Database host
	DBPort       string        // Database port
	DBName       string        // Database name
	JWTSecret    string        // Secret used to sign session tokens
	SessionTTL   time.Duration // Lifetime of a login session
	CookieName   string        // Name of the session cookie
	CookieSecure bool          // Only send the cookie over HTTPS
	RedisAddr    string        // Redis server address
	RedisPass    string        // Redis password
	RedisDB      int           // Redis database number
	CORSOrigins  []string      // Origins allowed to call the API with credentials
	LogLevel     string        // Logrus level name
	IsProd       bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv() // Every key below is read from the environment

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "finance.db")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "finance")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_NAME", "session")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IS_PROD", false)

	return &Config{
		AppPort:      v.GetString("APP_PORT"),                   // Application port
		DBDriver:     strings.ToLower(v.GetString("DB_DRIVER")), // Database driver
		DBPath:       v.GetString("DB_PATH"),                    // SQLite file
		DBUser:       v.GetString("DB_USER"),                    // Database user
		DBPassword:   v.GetString("DB_PASSWORD"),                // Database password
		DBHost:       v.GetString("DB_HOST"),                    // Database host
		DBPort:       v.GetString("DB_PORT"),                    // Database port
		DBName:       v.GetString("DB_NAME"),                    // Database name
		JWTSecret:    v.GetString("JWT_SECRET"),                 // Session token secret
		SessionTTL:   v.GetDuration("SESSION_TTL"),              // Session lifetime
		CookieName:   v.GetString("COOKIE_NAME"),                // Cookie name
		CookieSecure: v.GetBool("COOKIE_SECURE"),                // HTTPS-only cookie
		RedisAddr:    v.GetString("REDIS_ADDR"),                 // Redis server address
		RedisPass:    v.GetString("REDIS_PASS"),                 // Redis password
		RedisDB:      v.GetInt("REDIS_DB"),                      // Redis database number
		CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),    // Allowed origins
		LogLevel:     v.GetString("LOG_LEVEL"),                  // Log level
		IsProd:       v.GetBool("IS_PROD"),                      // Is production environment
	}
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverMySQL {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.IsProd && c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverMySQL {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
	return c.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// splitList turns a comma separated value into its trimmed, non-empty parts
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
