package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	ServerPort        string
	MongoURI          string
	MongoDBName       string
	RedisURI          string
	JWTSecret         string
	TokenTTL          time.Duration
	PasswordBlacklist string
	SeedDB            bool
}

func Load() Config {
	ttlHours := 24
	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}

	return Config{
		ServerPort:        getEnv("SERVER_PORT", "5000"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "taskmanager"),
		RedisURI:          getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          time.Duration(ttlHours) * time.Hour,
		PasswordBlacklist: os.Getenv("PASSWORD_BLACKLIST_FILE"),
		SeedDB:            os.Getenv("SEED_DB") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
