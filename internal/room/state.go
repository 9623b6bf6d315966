package room

import (
	"context"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// stateMessageLocked builds the full update sent after every change.
func (r *Room) stateMessageLocked() *proto.ServerToClientMessage {
	board := r.game.Board
	outcome := r.game.Outcome
	return &proto.ServerToClientMessage{
		Type:        proto.TypeUpdate,
		Board:       board[:],
		Next:        r.game.CurrentTurn,
		Status:      outcome.Status,
		Winner:      outcome.Winner,
		WinningLine: outcome.Line,
		Mode:        r.mode,
		Scores:      proto.NewScoresView(r.scores),
		Version:     r.versionLocked(),
	}
}

// versionLocked identifies the current board. It grows with every accepted
// move and with every reset, so no two boards of one room share a version.
func (r *Room) versionLocked() int {
	return r.generation*(game.BoardSize+1) + r.game.MoveCount()
}

func (r *Room) resetBoardLocked() {
	r.game.Reset()
	r.generation++
}

// finishGame records a terminal outcome and announces it.
func (r *Room) finishGame(ctx context.Context, outcome game.Outcome) {
	ctx, span := tracer.Start(ctx, "room.finishGame", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("game.status", string(outcome.Status)),
		attribute.String("game.winner", string(outcome.Winner)),
	))
	defer span.End()

	r.scores.Record(outcome)
	slog.InfoContext(ctx, "Game finished", "room.id", r.ID, "game.status", outcome.Status, "game.winner", outcome.Winner)

	if r.gamesFinished != nil {
		r.gamesFinished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("game.mode", string(r.mode)),
			attribute.String("game.status", string(outcome.Status)),
		))
	}

	r.recordResult(ctx, outcome)

	if r.publisher == nil {
		return
	}

	payload := events.GameFinishedPayload{
		RoomID:    r.ID,
		PlayerID:  r.PlayerID,
		Mode:      r.mode,
		Status:    outcome.Status,
		Winner:    outcome.Winner,
		HumanMark: r.humanMark(),
	}
	if human := r.humanLocked(); human != nil {
		payload.UserID = human.UserID
	}
	if r.mode == game.ModeAI {
		payload.Difficulty = r.settings.Difficulty
	}

	if err := r.publisher.Publish(ctx, events.TypeGameFinished, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish game_finished event", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish game_finished event")
	}
}

// recordResult counts an AI game against the registered user seated here.
// The room records it directly, so a room closing right after its last
// move still counts the game exactly once.
func (r *Room) recordResult(ctx context.Context, outcome game.Outcome) {
	if r.stores.Stats == nil || r.mode != game.ModeAI {
		return
	}
	human := r.humanLocked()
	if human == nil || human.UserID == 0 {
		return
	}
	result, ok := models.ResultFor(outcome.Status, outcome.Winner, r.humanMark())
	if !ok {
		return
	}

	ctx, span := tracer.Start(ctx, "room.recordResult", trace.WithAttributes(
		attribute.Int64("user.id", human.UserID),
		attribute.String("game.result", string(result)),
	))
	defer span.End()

	if err := r.stores.Stats.RecordGame(ctx, human.UserID, result); err != nil {
		slog.ErrorContext(ctx, "Failed to record game result", "user.id", human.UserID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record game result")
		return
	}
	slog.InfoContext(ctx, "Recorded game result", "user.id", human.UserID, "game.result", result)
}

// SendInitialState tells every player its mark, the stored settings and the current board.
func (r *Room) SendInitialState(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.SendInitialState", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sendAssignmentsLocked(ctx)
	if human := r.humanLocked(); human != nil {
		settings := r.settings
		r.send(ctx, human, &proto.ServerToClientMessage{Type: proto.TypeSettings, Settings: &settings})
	}
	r.broadcastLocked(ctx, r.stateMessageLocked())
}

func (r *Room) sendAssignmentsLocked(ctx context.Context) {
	for _, p := range r.Players {
		mark := r.humanMark()
		if p.IsBot {
			mark = r.botMark()
		}
		r.send(ctx, p, &proto.PlayerAssignmentMessage{
			Type:     proto.TypeAssignment,
			PlayerID: p.ID,
			RoomID:   r.ID,
			Mark:     mark,
		})
	}
}
