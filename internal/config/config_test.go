package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnabazaar/bazaar/pkg/db"
	"github.com/apnabazaar/bazaar/pkg/tokens"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://bazaar@localhost/bazaar")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, tokens.DefaultTTL, cfg.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "user_events", cfg.EventsTopic)

	t.Setenv("TOKEN_TTL", "1h")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_DBPool(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://bazaar@localhost/bazaar")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, db.Pool{MaxOpenConns: 20, MaxIdleConns: 10}, cfg.DBPool)

	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "oops")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, db.Pool{MaxOpenConns: 50, MaxIdleConns: 10}, cfg.DBPool)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://bazaar@localhost/bazaar")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadClient(t *testing.T) {
	t.Setenv("AUTH_MODE", "MOCK")
	t.Setenv("CLIENT_STORAGE", "redis")
	t.Setenv("API_URL", "")

	cfg := LoadClient()
	assert.Equal(t, AuthModeMock, cfg.AuthMode)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
}
