package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/apnabazaar/bazaar/internal/events"
	"github.com/apnabazaar/bazaar/internal/models"
	envcfg "github.com/apnabazaar/bazaar/pkg/config"
	"github.com/apnabazaar/bazaar/pkg/db"
	"github.com/apnabazaar/bazaar/pkg/tokens"
)

type Config struct {
	HTTPAddr     string
	DatabaseURL  string
	JWTSecret    []byte
	TokenTTL     time.Duration
	KafkaBrokers []string
	EventsTopic  string
	LogLevel     string
	DBPool       db.Pool
}

// Storage backends for the client-local store.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Auth modes pick the authenticator used by the storefront client.
const (
	AuthModeAPI  = "api"
	AuthModeMock = "mock"
)

type ClientConfig struct {
	APIURL        string
	AuthMode      string
	Storage       string
	StorageDir    string
	RedisURL      string
	StoragePrefix string
}

// loadDotenv reads .env when present. A missing file is not an error.
func loadDotenv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
}

func Load() (Config, error) {
	loadDotenv()

	cfg := Config{
		HTTPAddr:     envcfg.EnvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:  envcfg.EnvDefault("DATABASE_URL", ""),
		JWTSecret:    []byte(envcfg.EnvDefault("JWT_SECRET", "")),
		TokenTTL:     envcfg.EnvDurationDefault("TOKEN_TTL", tokens.DefaultTTL),
		KafkaBrokers: envcfg.CSV(envcfg.EnvDefault("KAFKA_BROKERS", "")),
		EventsTopic:  envcfg.EnvDefault("EVENTS_TOPIC", events.DefaultTopic),
		LogLevel:     envcfg.EnvDefault("LOG_LEVEL", "info"),
		DBPool: db.Pool{
			MaxOpenConns: envcfg.EnvIntDefault("DB_MAX_OPEN_CONNS", db.DefaultMaxOpenConns),
			MaxIdleConns: envcfg.EnvIntDefault("DB_MAX_IDLE_CONNS", db.DefaultMaxIdleConns),
		},
	}
	if err := envcfg.RequireNonEmpty(
		"DATABASE_URL", cfg.DatabaseURL,
		"JWT_SECRET", string(cfg.JWTSecret),
	); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadClient() ClientConfig {
	loadDotenv()

	return ClientConfig{
		APIURL:        envcfg.EnvDefault("API_URL", "http://localhost:8080"),
		AuthMode:      strings.ToLower(envcfg.EnvDefault("AUTH_MODE", AuthModeAPI)),
		Storage:       strings.ToLower(envcfg.EnvDefault("CLIENT_STORAGE", StorageFile)),
		StorageDir:    envcfg.EnvDefault("STORAGE_DIR", ".bazaar"),
		RedisURL:      envcfg.EnvDefault("REDIS_URL", "redis://localhost:6379/0"),
		StoragePrefix: envcfg.EnvDefault("STORAGE_PREFIX", "bazaar:"),
	}
}

func InitDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	return db.Open(ctx, cfg.DatabaseURL, cfg.DBPool, models.All()...)
}
