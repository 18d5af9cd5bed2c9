package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	Payment PaymentConfig
	Expiry  ExpiryConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type MongoDBConfig struct {
	URI      string
	Database string
	// Transactions requires a replica set; a standalone mongod rejects sessions.
	Transactions bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	SlugTTL  time.Duration // lifetime of a cached slug -> property id mapping
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type JWTConfig struct {
	Secret string // must match the identity provider's signing key
}

type PaymentConfig struct {
	SuccessURL string // guest-facing status page the gateway callback redirects to
}

// ExpiryConfig drives the job that cancels bookings never paid for.
// An empty Schedule disables the job.
type ExpiryConfig struct {
	Schedule string
	After    time.Duration
	Workers  int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	slugTTL, err := time.ParseDuration(getEnv("REDIS_SLUG_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_SLUG_TTL: %w", err)
	}

	transactions, err := strconv.ParseBool(getEnv("MONGODB_TRANSACTIONS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGODB_TRANSACTIONS: %w", err)
	}

	expiryAfter, err := time.ParseDuration(getEnv("BOOKING_EXPIRY_AFTER", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_EXPIRY_AFTER: %w", err)
	}

	expiryWorkers, err := strconv.Atoi(getEnv("BOOKING_EXPIRY_WORKERS", "4"))
	if err != nil || expiryWorkers < 1 {
		return nil, fmt.Errorf("invalid BOOKING_EXPIRY_WORKERS: %q", os.Getenv("BOOKING_EXPIRY_WORKERS"))
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		MongoDB: MongoDBConfig{
			URI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:     getEnv("MONGODB_DATABASE", "trahy"),
			Transactions: transactions,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			SlugTTL:  slugTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "booking_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Payment: PaymentConfig{
			SuccessURL: getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/booking/status"),
		},
		Expiry: ExpiryConfig{
			Schedule: getEnv("BOOKING_EXPIRY_SCHEDULE", ""),
			After:    expiryAfter,
			Workers:  expiryWorkers,
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
