package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/game"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=session_repository.go -destination=mocks/mock_session_repository.go -package=mocks

// Hash fields of a session.
const (
	FieldRoomID = "room_id"
	FieldMode   = "mode"
	FieldGame   = "game"
	FieldScores = "scores"
)

// SessionRepository stores the snapshot of a browser session, keyed by player id.
type SessionRepository interface {
	Save(ctx context.Context, snap *game.Snapshot) error
	FindByPlayerID(ctx context.Context, playerID string) (*game.Snapshot, error)
	Delete(ctx context.Context, playerID string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository creates a Redis-based SessionRepository. Sessions expire
// ttl after their last save; a zero ttl keeps them forever.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(playerID string) string {
	return fmt.Sprintf("session:%s", playerID)
}

// Save writes the whole snapshot and refreshes its expiry in one transaction.
func (r *redisSessionRepository) Save(ctx context.Context, snap *game.Snapshot) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Save", trace.WithAttributes(
		attribute.String("player.id", snap.PlayerID),
		attribute.String("room.id", snap.RoomID),
	))
	defer span.End()

	gameJSON, err := json.Marshal(snap.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}
	scoresJSON, err := json.Marshal(snap.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	key := sessionKey(snap.PlayerID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		FieldRoomID, snap.RoomID,
		FieldMode, string(snap.Mode),
		FieldGame, gameJSON,
		FieldScores, scoresJSON,
	)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save session")
		return fmt.Errorf("failed to save session in redis: %w", err)
	}
	return nil
}

// FindByPlayerID loads a snapshot. It returns ErrNotFound when the session expired or never existed.
func (r *redisSessionRepository) FindByPlayerID(ctx context.Context, playerID string) (*game.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByPlayerID", trace.WithAttributes(
		attribute.String("player.id", playerID),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(playerID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read session")
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("session %s: %w", playerID, ErrNotFound)
	}

	snap := &game.Snapshot{
		RoomID:   data[FieldRoomID],
		PlayerID: playerID,
		Mode:     game.Mode(data[FieldMode]),
	}
	if err := json.Unmarshal([]byte(data[FieldGame]), &snap.Game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	if err := json.Unmarshal([]byte(data[FieldScores]), &snap.Scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return snap, nil
}

// Delete removes a session.
func (r *redisSessionRepository) Delete(ctx context.Context, playerID string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	return r.rdb.Del(ctx, sessionKey(playerID)).Err()
}
