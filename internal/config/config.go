package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mirror backends selectable through MIRROR_BACKEND.
const (
	MirrorSQLite   = "sqlite"
	MirrorPostgres = "postgres"
	MirrorRedis    = "redis"
	MirrorMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Mirror       MirrorConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Advisor      AdvisorConfig
	Desk         DeskConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// MirrorConfig selects where the best-effort state mirror is written.
type MirrorConfig struct {
	Backend    string
	SQLitePath string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AdvisorConfig configures the advice API client.
type AdvisorConfig struct {
	APIKey      string
	UseKeyring  bool
	Model       string
	BaseURL     string
	Temperature float64
	MaxDocs     int
	MaxChars    int
}

// DeskConfig tunes in-memory desk behavior.
type DeskConfig struct {
	ActivityLogLimit int
	SeedOnEmpty      bool
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("ADVISOR_TEMPERATURE", "0.4"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_TEMPERATURE: %w", err)
	}

	backend := strings.ToLower(getEnv("MIRROR_BACKEND", MirrorSQLite))
	switch backend {
	case MirrorSQLite, MirrorPostgres, MirrorRedis, MirrorMemory:
	default:
		return nil, fmt.Errorf("invalid MIRROR_BACKEND %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Mirror: MirrorConfig{
			Backend:    backend,
			SQLitePath: getEnv("SQLITE_PATH", "support-desk.db"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Advisor: AdvisorConfig{
			APIKey:      os.Getenv("ADVISOR_API_KEY"),
			UseKeyring:  getEnvAsBool("ADVISOR_USE_KEYRING", false),
			Model:       getEnv("ADVISOR_MODEL", "gemini-2.5-flash"),
			BaseURL:     getEnv("ADVISOR_BASE_URL", "https://generativelanguage.googleapis.com"),
			Temperature: temperature,
			MaxDocs:     getEnvAsInt("KNOWLEDGE_MAX_DOCUMENTS", 20),
			MaxChars:    getEnvAsInt("KNOWLEDGE_MAX_CHARS", 60000),
		},
		Desk: DeskConfig{
			ActivityLogLimit: getEnvAsInt("ACTIVITY_LOG_LIMIT", 500),
			SeedOnEmpty:      getEnvAsBool("SEED_ON_EMPTY", true),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
