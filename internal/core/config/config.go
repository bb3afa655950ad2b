package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type InvalidationCfg struct {
	Enabled bool
	Driver  string
	Topic   string
	Brokers string
	GroupID string
}

type Config struct {
	Addr     string
	LogLevel string

	PlacesBaseURL    string
	PlacesAPIKey     string
	PlacesRadiusM    int
	PlacesMaxResults int
	PlacesTimeout    time.Duration

	RedisAddr     string
	DutyRetention time.Duration

	FusionTTL     time.Duration
	FusionGridRes int
	FusionLRUSize int

	Invalidation InvalidationCfg
}

func FromEnv() Config {
	radius := getint("PLACES_RADIUS_M", 5000)
	if radius <= 0 {
		radius = 5000
	}

	gridRes := getint("FUSION_GRID_RES", 8)
	if gridRes > 15 {
		gridRes = 15
	}
	if gridRes < -1 {
		gridRes = -1
	}

	lruSize := getint("FUSION_LRU_SIZE", 256)
	if lruSize <= 0 {
		lruSize = 256
	}

	return Config{
		Addr:     getenv("ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		PlacesBaseURL:    getenv("PLACES_BASE_URL", "https://places.googleapis.com"),
		PlacesAPIKey:     getenv("PLACES_API_KEY", ""),
		PlacesRadiusM:    radius,
		PlacesMaxResults: getint("PLACES_MAX_RESULTS", 20),
		PlacesTimeout:    getduration("PLACES_TIMEOUT", 5*time.Second),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		DutyRetention: getduration("DUTY_RETENTION", 72*time.Hour),

		FusionTTL:     getduration("FUSION_TTL", 6*time.Hour),
		FusionGridRes: gridRes,
		FusionLRUSize: lruSize,

		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Driver:  getenv("INVALIDATION_DRIVER", "none"),
			Topic:   getenv("KAFKA_TOPIC", "duty-updates"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "locator-invalidator"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
