package repository

import (
	"context"
	"errors"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/player"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

//go:generate mockgen -source=player_repository.go -destination=mocks/mock_player_repository.go -package=mocks

var tracer = otel.Tracer("repository")

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("not found")

// PlayerRepository defines the interface for player presence operations.
type PlayerRepository interface {
	SetOnline(ctx context.Context, id, roomID string) error
	UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error
}

type redisPlayerRepository struct {
	rdb *redis.Client
}

// NewPlayerRepository creates a new Redis-based PlayerRepository.
func NewPlayerRepository(rdb *redis.Client) PlayerRepository {
	return &redisPlayerRepository{
		rdb: rdb,
	}
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// SetOnline records the room a connected player is attached to.
func (r *redisPlayerRepository) SetOnline(ctx context.Context, id, roomID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.SetOnline")
	defer span.End()

	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, playerKey(id), "room_id", roomID, "connection_status", string(player.StatusConnected))
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateConnectionStatus updates only the connection status of a player.
func (r *redisPlayerRepository) UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateConnectionStatus")
	defer span.End()

	return r.rdb.HSet(ctx, playerKey(id), "connection_status", string(status)).Err()
}
