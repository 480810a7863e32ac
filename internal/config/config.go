package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For cache TTL

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string        // Application port
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	JWTSecret         string        // Secret shared with the identity provider for bearer tokens
	WebhookSecretHash string        // Bcrypt hash of the identity webhook secret
	RedisAddr         string        // Redis server address, empty disables caching
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	CacheTTL          time.Duration // Lifetime of cached lookups
	IsProd            bool          // Is production environment
}

// defaultCacheTTL applies when CACHE_TTL_SECONDS is unset or invalid
const defaultCacheTTL = 60 * time.Second

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:           getenv("APP_PORT", "8080"),       // Application port
		DBUser:            os.Getenv("DB_USER"),             // Database user
		DBPassword:        os.Getenv("DB_PASSWORD"),         // Database password
		DBHost:            getenv("DB_HOST", "127.0.0.1"),   // Database host
		DBPort:            getenv("DB_PORT", "3306"),        // Database port
		DBName:            os.Getenv("DB_NAME"),             // Database name
		JWTSecret:         os.Getenv("JWT_SECRET"),          // JWT secret key
		WebhookSecretHash: os.Getenv("WEBHOOK_SECRET_HASH"), // Webhook secret hash
		RedisAddr:         os.Getenv("REDIS_ADDR"),          // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),          // Redis password
		RedisDB:           redisDB,                          // Redis database number
		CacheTTL:          cacheTTL(),                       // Cache TTL
		IsProd:            os.Getenv("IS_PROD") == "true",   // Is production environment
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cacheTTL() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("CACHE_TTL_SECONDS"))
	if err != nil || secs <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(secs) * time.Second
}
