package room

import (
	"context"
	"encoding/json"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/pkg/proto"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// broadcastLocked sends a message to all connected players in the room.
func (r *Room) broadcastLocked(ctx context.Context, message *proto.ServerToClientMessage) {
	ctx, span := tracer.Start(ctx, "room.broadcast", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	for _, p := range r.Players {
		if p.Status == player.StatusConnected && p.Conn != nil {
			if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Error writing message to player")
			}
		}
	}
}

// send writes a single message to one player.
func (r *Room) send(ctx context.Context, p *player.Player, message any) {
	if p.Conn == nil || p.Status != player.StatusConnected {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "player.id", p.ID, "error", err)
		return
	}
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
	}
}

func (r *Room) sendError(ctx context.Context, p *player.Player, reason string) {
	if p.IsBot {
		return
	}
	r.send(ctx, p, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason})
}

// Reconnect replaces the human seat with a fresh connection and resends the state.
func (r *Room) Reconnect(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.Reconnect", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	replaced := false
	for i, seated := range r.Players {
		if !seated.IsBot {
			if seated.Conn != nil && seated.Status == player.StatusConnected {
				_ = seated.Conn.Close()
			}
			r.Players[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		r.Players = append(r.Players, p)
	}
	r.mu.Unlock()

	go r.ReadPump(p)

	if r.stores.Players != nil {
		if err := r.stores.Players.SetOnline(ctx, p.ID, r.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to set player online", "player.id", p.ID, "error", err)
			span.RecordError(err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, events.TypePlayerReconnected, events.PlayerReconnectedPayload{RoomID: r.ID, PlayerID: p.ID}); err != nil {
			slog.ErrorContext(ctx, "Failed to publish player_reconnected event", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to publish player_reconnected event")
		}
	}
	slog.InfoContext(ctx, "Player reconnected to live room", "player.id", p.ID, "room.id", r.ID)

	r.SendInitialState(ctx)
}

// ReadPump pumps messages from the websocket connection to the room's incomingMoves channel.
func (r *Room) ReadPump(p *player.Player) {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	defer r.handleDisconnect(ctx, p)

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "room.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}
		select {
		case r.incomingMoves <- &types.PlayerMove{Player: p, Message: msg}:
		case <-r.Done:
			return
		}
	}
}

// handleDisconnect marks p as disconnected. A connection that was already
// replaced by a reconnect leaves the room untouched.
func (r *Room) handleDisconnect(ctx context.Context, p *player.Player) {
	_ = p.Conn.Close()

	ctx, span := tracer.Start(ctx, "room.ReadPump.disconnectHandler", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	p.Status = player.StatusDisconnected
	p.LastSeen = time.Now()
	seated := false
	for _, other := range r.Players {
		if other == p {
			seated = true
			break
		}
	}
	r.mu.Unlock()

	if !seated {
		return
	}

	if r.stores.Players != nil {
		if err := r.stores.Players.UpdateConnectionStatus(ctx, p.ID, player.StatusDisconnected); err != nil {
			slog.ErrorContext(ctx, "Failed to set player status to disconnected", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to set player status to disconnected")
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, events.TypePlayerDisconnected, events.PlayerDisconnectedPayload{RoomID: r.ID, PlayerID: p.ID}); err != nil {
			slog.ErrorContext(ctx, "Failed to publish player_disconnected event", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to publish player_disconnected event")
		}
	}
	slog.InfoContext(ctx, "Player disconnected. Updated status and published event.", "player.id", p.ID)
}
