package repository

import (
	"context"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/game"
	"strconv"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=settings_repository.go -destination=mocks/mock_settings_repository.go -package=mocks

// SettingsRepository stores player preferences.
type SettingsRepository interface {
	Get(ctx context.Context, playerID string) (game.Settings, error)
	Save(ctx context.Context, playerID string, s game.Settings) error
}

type redisSettingsRepository struct {
	rdb      *redis.Client
	defaults game.Settings
}

// NewSettingsRepository creates a Redis-based SettingsRepository. Players who
// never saved settings get defaults.
func NewSettingsRepository(rdb *redis.Client, defaults game.Settings) SettingsRepository {
	return &redisSettingsRepository{rdb: rdb, defaults: defaults}
}

func settingsKey(playerID string) string {
	return fmt.Sprintf("settings:%s", playerID)
}

// Get returns the stored settings, filling missing or malformed fields from the defaults.
func (r *redisSettingsRepository) Get(ctx context.Context, playerID string) (game.Settings, error) {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Get")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, settingsKey(playerID)).Result()
	if err != nil {
		return r.defaults, fmt.Errorf("failed to get settings from redis: %w", err)
	}

	s := r.defaults
	if d, err := game.ParseDifficulty(data["difficulty"]); err == nil {
		s.Difficulty = d
	}
	if v, err := strconv.ParseBool(data["animations"]); err == nil {
		s.Animations = v
	}
	if v, err := strconv.ParseBool(data["sounds"]); err == nil {
		s.Sounds = v
	}
	return s, nil
}

// Save overwrites the stored settings.
func (r *redisSettingsRepository) Save(ctx context.Context, playerID string, s game.Settings) error {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	return r.rdb.HSet(ctx, settingsKey(playerID),
		"difficulty", string(s.Difficulty),
		"animations", strconv.FormatBool(s.Animations),
		"sounds", strconv.FormatBool(s.Sounds),
	).Err()
}
