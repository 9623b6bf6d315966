package config

import (
	"neonttt/Tic-Tac-Toe/internal/game"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "REDIS_CONNSTRING", "SQLITE_PATH", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"JWT_SECRET", "WEB_DIR", "BOT_THINK_DELAY", "SESSION_TTL", "DEFAULT_DIFFICULTY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "./master.db", cfg.SQLitePath)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.Equal(t, "./web", cfg.WebDir)
	assert.Equal(t, 500*time.Millisecond, cfg.BotThinkDelay)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, game.DefaultSettings(), cfg.Settings())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_CONNSTRING", "redis:6379")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")
	t.Setenv("BOT_THINK_DELAY", "0s")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("DEFAULT_DIFFICULTY", "impossible")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "otel-collector:4317", cfg.OTLPEndpoint)
	assert.Zero(t, cfg.BotThinkDelay)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, game.Impossible, cfg.Settings().Difficulty)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Unknown difficulty", key: "DEFAULT_DIFFICULTY", value: "nightmare"},
		{name: "Malformed delay", key: "BOT_THINK_DELAY", value: "soon"},
		{name: "Negative delay", key: "BOT_THINK_DELAY", value: "-1s"},
		{name: "Malformed TTL", key: "SESSION_TTL", value: "forever"},
		{name: "Zero TTL", key: "SESSION_TTL", value: "0s"},
		{name: "Short secret", key: "JWT_SECRET", value: "short"},
		{name: "Redis address without port", key: "REDIS_CONNSTRING", value: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
