package main

import (
	"os" // Exit codes

	"finance_tracker/internal/commands" // CLI commands
	"finance_tracker/internal/config"   // Configuration
	"finance_tracker/internal/db"       // Store setup
	"finance_tracker/internal/session"  // Server-side sessions

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

func main() {
	cfg := config.LoadConfig()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel) // Command output goes to stdout, keep logs quiet

	root := commands.NewRootCommand(commands.Deps{
		OpenDB: func() (*gorm.DB, error) {
			return db.Open(cfg)
		},
		OpenSessions: func() (session.Store, error) {
			return session.NewRedisStore(redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPass,
				DB:       cfg.RedisDB,
			})), nil
		},
		Secret: cfg.JWTSecret,
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
