package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ridehail/internal/adapters/out/routing"
	"ridehail/internal/core/domain/model/order"
)

// Config carries all runtime settings for the dispatch engine.
// Values load from the environment with sensible development defaults;
// only the database credentials have no fallback.
type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers          []string
	KafkaOrderUpdateTopic string

	RoutingProviderURL string
	RoutingCacheTTL    time.Duration

	MatchBaseRadiusKm   float64
	MatchMaxRadiusKm    float64
	MatchCandidateLimit int
	MatchClaimTTL       time.Duration

	PickupRadiusMeters float64

	TariffBaseFare        float64
	TariffPerKm           float64
	TariffPerMinute       float64
	TariffSurgeMultiplier float64
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() Config {
	return Config{
		HTTPPort: envOrDefault("HTTP_PORT", "8080"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderUpdateTopic: envOrDefault("KAFKA_ORDER_UPDATE_TOPIC", "order-updates"),

		RoutingProviderURL: envOrDefault("ROUTING_PROVIDER_URL", routing.DefaultProviderURL),
		RoutingCacheTTL:    time.Duration(envIntOrDefault("ROUTING_CACHE_TTL_SECONDS", 30)) * time.Second,

		MatchBaseRadiusKm:   envFloatOrDefault("MATCH_BASE_RADIUS_KM", 5),
		MatchMaxRadiusKm:    envFloatOrDefault("MATCH_MAX_RADIUS_KM", 60),
		MatchCandidateLimit: envIntOrDefault("MATCH_CANDIDATE_LIMIT", 10),
		MatchClaimTTL:       time.Duration(envIntOrDefault("MATCH_CLAIM_TTL_SECONDS", 30)) * time.Second,

		PickupRadiusMeters: envFloatOrDefault("PICKUP_RADIUS_METERS", order.DefaultPickupArrivalRadiusMeters),

		TariffBaseFare:        envFloatOrDefault("TARIFF_BASE_FARE", 500),
		TariffPerKm:           envFloatOrDefault("TARIFF_PER_KM", 120),
		TariffPerMinute:       envFloatOrDefault("TARIFF_PER_MINUTE", 25),
		TariffSurgeMultiplier: envFloatOrDefault("TARIFF_SURGE_MULTIPLIER", 1),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envIntOrDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
