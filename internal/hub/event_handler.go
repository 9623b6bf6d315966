package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/events"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (h *Hub) handleEvent(ctx context.Context, event events.Event) {
	eventCtx, eventSpan := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("event.type", event.Type),
	))
	defer eventSpan.End()

	switch event.Type {
	case events.TypeGameFinished:
		var payload events.GameFinishedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			slog.ErrorContext(eventCtx, "Could not unmarshal game_finished payload", "error", err)
			eventSpan.RecordError(err)
			eventSpan.SetStatus(codes.Error, "Could not unmarshal game_finished payload")
			return
		}
		h.handleGameFinished(eventCtx, &payload)

	case events.TypeSettingsChanged:
		var payload events.SettingsChangedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			slog.ErrorContext(eventCtx, "Could not unmarshal settings_changed payload", "error", err)
			eventSpan.RecordError(err)
			eventSpan.SetStatus(codes.Error, "Could not unmarshal settings_changed payload")
			return
		}
		if r, ok := h.localRooms[payload.PlayerID]; ok {
			r.ApplySettings(eventCtx, payload.Settings)
		}

	case events.TypePlayerDisconnected, events.TypePlayerReconnected:
		slog.DebugContext(eventCtx, "Presence event", "event.type", event.Type)
	}
}

// handleGameFinished logs games finished on any instance. Results are
// recorded by the room itself.
func (h *Hub) handleGameFinished(ctx context.Context, payload *events.GameFinishedPayload) {
	_, local := h.localRooms[payload.PlayerID]
	slog.InfoContext(ctx, "Game finished",
		"room.id", payload.RoomID,
		"player.id", payload.PlayerID,
		"game.mode", payload.Mode,
		"game.status", payload.Status,
		"room.local", local,
	)
}
