package main

import (
	"context" // context package is needed for Redis operations

	"shared_pockets/internal/api"     // Custom package for API handlers
	"shared_pockets/internal/config"  // Custom package for configuration
	"shared_pockets/internal/db"      // Custom package for the database connection
	"shared_pockets/internal/service" // Custom package for business operations
	"shared_pockets/internal/store"   // Custom package for storage
	"shared_pockets/internal/utils"   // Custom package for cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	st := store.NewGormStore(gdb) // Storage backed by MySQL

	// Setup Redis client; caching is skipped when no address is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, running without cache")
	}
	cache := utils.NewCache(redisClient, cfg.CacheTTL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := service.New(st) // Business operations
	r := api.NewRouter(svc, st, cache, api.RouterConfig{
		JWTSecret:         cfg.JWTSecret,         // Bearer token secret
		WebhookSecretHash: cfg.WebhookSecretHash, // Webhook secret hash
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
