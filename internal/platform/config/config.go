package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	LogLevel      string
	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ESI           ESIConfig
	Sync          SyncConfig
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the optional Redis client. An empty URL disables
// the name cache and the distributed sync lock.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the notification producer. No brokers means
// notifications are written to the log.
type KafkaConfig struct {
	Brokers     []string
	NotifyTopic string
}

// ESIConfig configures the upstream EVE Swagger Interface client.
type ESIConfig struct {
	BaseURL      string
	UserAgent    string
	RatePerSec   float64
	Burst        int
	Timeout      time.Duration
	NameCacheTTL time.Duration
}

// SyncConfig configures scheduled reconciliation.
type SyncConfig struct {
	Schedule    string
	Concurrency int
	LockTTL     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          envOr("CORPSTATS_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "corpstats"),
		JWTAudience:   envOr("JWT_AUDIENCE", "corpstats-api"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     envList("KAFKA_BROKERS"),
			NotifyTopic: envOr("NOTIFY_TOPIC", "corpstats.notifications"),
		},
		ESI: ESIConfig{
			BaseURL:      envOr("ESI_BASE_URL", "https://esi.evetech.net/latest"),
			UserAgent:    envOr("ESI_USER_AGENT", "corpstats"),
			RatePerSec:   envFloat("ESI_RATE_PER_SEC", 20),
			Burst:        envInt("ESI_BURST", 10),
			Timeout:      envDuration("ESI_TIMEOUT", 30*time.Second),
			NameCacheTTL: envDuration("NAME_CACHE_TTL", 24*time.Hour),
		},
		Sync: SyncConfig{
			Schedule:    envOr("SYNC_SCHEDULE", "@every 6h"),
			Concurrency: envInt("SYNC_CONCURRENCY", 4),
			LockTTL:     envDuration("SYNC_LOCK_TTL", 10*time.Minute),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
