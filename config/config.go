// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the HTTP, storage and order backend settings.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	// An empty RedisAddr keeps carts and sessions in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
	SessionTTL    time.Duration

	OrderAPIURL     string
	OrderAPITimeout time.Duration

	RateLimitCapacity int
	RateLimitWindow   time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:   durenv("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           atoienv("REDIS_DB", 0),
		KeyPrefix:         getenv("KEY_PREFIX", "member-services:"),
		SessionTTL:        durenv("SESSION_TTL", 30*time.Minute),
		OrderAPIURL:       getenv("ORDER_API_URL", "http://localhost:3000/api/orders"),
		OrderAPITimeout:   durenv("ORDER_API_TIMEOUT", 15*time.Second),
		RateLimitCapacity: atoienv("RATE_LIMIT_CAPACITY", 60),
		RateLimitWindow:   durenv("RATE_LIMIT_WINDOW", time.Minute),
	}
}
