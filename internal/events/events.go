package events

import (
	"context"
	"encoding/json"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/game"

	"github.com/go-redis/redis/v8"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeGameFinished       = "game_finished"
	TypePlayerDisconnected = "player_disconnected"
	TypePlayerReconnected  = "player_reconnected"
	TypeSettingsChanged    = "settings_changed"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	RoomID     string          `json:"room_id"`
	PlayerID   string          `json:"player_id"`
	UserID     int64           `json:"user_id,omitempty"`
	Mode       game.Mode       `json:"mode"`
	Difficulty game.Difficulty `json:"difficulty,omitempty"`
	Status     game.Status     `json:"status"`
	Winner     game.PlayerMark `json:"winner,omitempty"`
	HumanMark  game.PlayerMark `json:"human_mark"`
}

// PlayerDisconnectedPayload is the payload for the "player_disconnected" event.
type PlayerDisconnectedPayload struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// PlayerReconnectedPayload is the payload for the "player_reconnected" event.
type PlayerReconnectedPayload struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// SettingsChangedPayload is the payload for the "settings_changed" event.
type SettingsChangedPayload struct {
	PlayerID string        `json:"player_id"`
	Settings game.Settings `json:"settings"`
}

// NewEvent encodes payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks

// Publisher sends events to every server instance.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// RedisPublisher publishes events on the Redis events channel.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a Publisher backed by Redis Pub/Sub.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish encodes and publishes a single event.
func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
