package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	// CountRemovedStories keeps a removed story in its author's lifetime
	// stories_count. When false, removal decrements the author counter too.
	CountRemovedStories bool

	RateLimitStory time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTTTL:    24 * time.Hour,

		CountRemovedStories: getEnv("COUNT_REMOVED_STORIES", "true") == "true",
	}

	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		minutes, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
		}
		cfg.JWTTTL = time.Duration(minutes) * time.Minute
	}

	var err error
	cfg.RateLimitStory, err = time.ParseDuration(getEnv("RATE_LIMIT_STORY", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_STORY: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
