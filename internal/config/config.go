package config

import (
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/validator"
	"os"
	"time"
)

// Config is the server configuration read from the environment.
type Config struct {
	HTTPAddr          string          `validate:"required"`
	RedisAddr         string          `validate:"required,hostname_port"`
	SQLitePath        string          `validate:"required"`
	OTLPEndpoint      string          `validate:"omitempty,hostname_port"`
	JWTSecret         string          `validate:"required,min=16"`
	WebDir            string          `validate:"required"`
	BotThinkDelay     time.Duration   `validate:"gte=0"`
	SessionTTL        time.Duration   `validate:"gt=0"`
	DefaultDifficulty game.Difficulty `validate:"required,oneof=easy medium hard impossible"`
	LogLevel          string          `validate:"required"`
}

// Load reads the configuration, falling back to defaults for unset variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:         getEnv("REDIS_CONNSTRING", "localhost:6379"),
		SQLitePath:        getEnv("SQLITE_PATH", "./master.db"),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		WebDir:            getEnv("WEB_DIR", "./web"),
		DefaultDifficulty: game.Difficulty(getEnv("DEFAULT_DIFFICULTY", string(game.Medium))),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
	}

	var err error
	if cfg.BotThinkDelay, err = getDuration("BOT_THINK_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s: %w", validator.Describe(err), err)
	}
	return cfg, nil
}

// Settings are the defaults of players who never saved their own.
func (c *Config) Settings() game.Settings {
	s := game.DefaultSettings()
	s.Difficulty = c.DefaultDifficulty
	return s
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
