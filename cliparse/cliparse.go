package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	Env          string
	DatabaseURL  string
	DatabaseType string

	JWTSecret  string
	APIKey     string
	TokenTTL   time.Duration
	BcryptCost int

	AllowedOrigins []string

	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
}

// IsLocal reports whether the process runs in a developer environment.
// Store error messages are only echoed to clients when it does.
func (c Config) IsLocal() bool {
	return c.Env == "local"
}

// ParseFlags loads .env, then validates flags with environment fallbacks
func ParseFlags(args []string) (Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	var origins, brokers, ttl string

	fs := flag.NewFlagSet("betdesk", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Env, "env", "", "Environment (local, dev, prod)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "Service API key (prefer env)")

	fs.StringVar(&ttl, "token-ttl", "", "Bearer token lifetime, e.g. 168h")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", 0, "bcrypt cost factor")
	fs.StringVar(&origins, "cors-origins", "", "Comma separated CORS origin allow-list")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for token revocation")
	fs.StringVar(&brokers, "kafka-brokers", "", "Comma separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for resource events")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000
		}
	}

	if cfg.Env == "" {
		cfg.Env = envOr("ENV", "prod")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DatabaseSQLite)
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "data.db"
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("API_KEY")
	}
	if cfg.APIKey == "" {
		return Config{}, errors.New("API_KEY required")
	}

	if ttl == "" {
		ttl = envOr("TOKEN_TTL", "168h")
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return Config{}, errors.New("invalid token TTL")
	}
	cfg.TokenTTL = d

	if cfg.BcryptCost == 0 {
		cost, err := strconv.Atoi(envOr("BCRYPT_COST", "10"))
		if err != nil {
			return Config{}, errors.New("invalid BCRYPT_COST env variable")
		}
		cfg.BcryptCost = cost
	}

	if origins == "" {
		origins = envOr("CORS_ORIGINS", "http://127.0.0.1:3000")
	}
	cfg.AllowedOrigins = splitList(origins)

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if brokers == "" {
		brokers = os.Getenv("KAFKA_BROKERS")
	}
	cfg.KafkaBrokers = splitList(brokers)
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = envOr("KAFKA_TOPIC", "betdesk.events")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
