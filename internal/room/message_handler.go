package room

import (
	"context"
	"encoding/json"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/internal/validator"
	"neonttt/Tic-Tac-Toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
func (r *Room) HandleMessage(p *player.Player, rawMessage []byte) {
	ctx := context.Background()
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Status == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from disconnected player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from disconnected player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendError(ctx, p, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendError(ctx, p, "invalid message: "+validator.Describe(err))
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	if p.IsBot && message.Type != proto.TypeMove {
		return
	}

	switch message.Type {
	case proto.TypeMove:
		r.handleMove(ctx, p, *message.Index, message.Version)
	case proto.TypeReset:
		r.handleReset(ctx)
	case proto.TypeNewGame:
		r.handleNewGame(ctx)
	case proto.TypeSetMode:
		r.handleSetMode(ctx, p, message.Mode)
	case proto.TypeSettings:
		r.handleSettings(ctx, *message.Settings)
	}
}

// handleMove applies a move for the mark p currently controls.
// A move carrying a version is dropped unless the board is still at that version.
func (r *Room) handleMove(ctx context.Context, p *player.Player, index int, version *int) {
	ctx, moveSpan := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
		attribute.Int("move.index", index),
	))
	defer moveSpan.End()

	mark, ok := r.markFor(p)
	if !ok {
		slog.DebugContext(ctx, "ignoring move from idle seat", "player.id", p.ID, "room.id", r.ID)
		return
	}
	if mark != r.game.CurrentTurn {
		slog.DebugContext(ctx, "ignoring move out of turn", "player.id", p.ID, "mark", mark, "next", r.game.CurrentTurn)
		moveSpan.SetAttributes(attribute.Bool("move.valid", false))
		return
	}
	if version != nil && *version != r.versionLocked() {
		slog.DebugContext(ctx, "ignoring move for a stale board", "player.id", p.ID, "move.version", *version, "room.version", r.versionLocked())
		moveSpan.SetAttributes(attribute.Bool("move.valid", false), attribute.Bool("move.stale", true))
		return
	}

	outcome, err := r.game.Move(index)
	if err != nil {
		slog.WarnContext(ctx, "invalid move from player", "player.id", p.ID, "move.index", index, "error", err)
		moveSpan.SetAttributes(attribute.Bool("move.valid", false))
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Invalid move")
		r.sendError(ctx, p, err.Error())
		return
	}
	moveSpan.SetAttributes(attribute.Bool("move.valid", true), attribute.String("game.status", string(outcome.Status)))

	if outcome.IsOver() {
		r.finishGame(ctx, outcome)
	}
	r.commit(ctx)
}

// handleReset clears the board and keeps the scores.
func (r *Room) handleReset(ctx context.Context) {
	slog.InfoContext(ctx, "Resetting game", "room.id", r.ID)
	r.resetBoardLocked()
	r.commit(ctx)
}

// handleNewGame clears the board and the scores.
func (r *Room) handleNewGame(ctx context.Context) {
	slog.InfoContext(ctx, "Starting new game, scores cleared", "room.id", r.ID)
	r.resetBoardLocked()
	r.scores = game.Scoreboard{}
	r.commit(ctx)
}

func (r *Room) handleSetMode(ctx context.Context, p *player.Player, rawMode string) {
	mode, err := game.ParseMode(rawMode)
	if err != nil {
		slog.WarnContext(ctx, "invalid mode from player", "player.id", p.ID, "error", err)
		r.sendError(ctx, p, err.Error())
		return
	}
	r.applyModeLocked(ctx, mode)
}

// SetMode switches the game mode, which also clears the board.
func (r *Room) SetMode(ctx context.Context, mode game.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyModeLocked(ctx, mode)
}

func (r *Room) applyModeLocked(ctx context.Context, mode game.Mode) {
	ctx, span := tracer.Start(ctx, "room.setMode", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("game.mode", string(mode)),
	))
	defer span.End()

	slog.InfoContext(ctx, "Switching game mode", "room.id", r.ID, "game.mode", mode)
	r.mode = mode
	r.resetBoardLocked()
	r.sendAssignmentsLocked(ctx)
	r.commit(ctx)
}

// handleSettings stores the new preferences and retunes the bot.
func (r *Room) handleSettings(ctx context.Context, s game.Settings) {
	ctx, span := tracer.Start(ctx, "room.handleSettings", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("bot.difficulty", string(s.Difficulty)),
	))
	defer span.End()

	if r.stores.Settings != nil {
		if err := r.stores.Settings.Save(ctx, r.PlayerID, s); err != nil {
			slog.ErrorContext(ctx, "failed to save settings", "player.id", r.PlayerID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to save settings")
		}
	}
	r.applySettingsLocked(ctx, s)
}

// ApplySettings adopts settings that were already saved elsewhere, such as
// through the REST API.
func (r *Room) ApplySettings(ctx context.Context, s game.Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applySettingsLocked(ctx, s)
}

func (r *Room) applySettingsLocked(ctx context.Context, s game.Settings) {
	r.settings = s
	r.applyDifficultyLocked()

	settings := r.settings
	r.broadcastLocked(ctx, &proto.ServerToClientMessage{Type: proto.TypeSettings, Settings: &settings})
}

// commit persists the session and broadcasts the new state.
func (r *Room) commit(ctx context.Context) {
	r.persist(ctx)
	r.broadcastLocked(ctx, r.stateMessageLocked())
}
