package hub

import (
	"context"
	"errors"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/internal/repository"
	"neonttt/Tic-Tac-Toe/internal/room"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration attaches a connection to its session: a live local room,
// a room restored from the stored snapshot, or a brand new room.
func (h *Hub) handleRegistration(req *types.RegistrationRequest) {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	p := req.Player
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("game.mode", string(req.Mode)),
	))
	defer span.End()

	if existing, ok := h.localRooms[p.ID]; ok {
		span.SetAttributes(attribute.String("registration.kind", "resume"))
		h.handleReconnectionRegistration(ctx, existing, req)
		return
	}

	snap, err := h.stores.Sessions.FindByPlayerID(ctx, p.ID)
	switch {
	case err == nil:
		span.SetAttributes(attribute.String("registration.kind", "restore"))
		slog.InfoContext(ctx, "Restoring session from snapshot", "player.id", p.ID, "room.id", snap.RoomID)
	case errors.Is(err, repository.ErrNotFound):
		span.SetAttributes(attribute.String("registration.kind", "new"))
		snap = newSnapshot(p.ID)
	default:
		slog.ErrorContext(ctx, "Could not load session, starting a new one", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not load session")
		snap = newSnapshot(p.ID)
	}

	if req.Mode != "" && req.Mode != snap.Mode {
		snap.Mode = req.Mode
		snap.Game = *game.NewGame()
	}

	settings, err := h.stores.Settings.Get(ctx, p.ID)
	if err != nil {
		slog.WarnContext(ctx, "Could not load settings, using defaults", "player.id", p.ID, "error", err)
		span.RecordError(err)
	}

	h.createAndStartRoom(ctx, snap, settings, p)
}

func (h *Hub) handleReconnectionRegistration(ctx context.Context, existing *room.Room, req *types.RegistrationRequest) {
	slog.InfoContext(ctx, "Reconnected player added back to existing local room", "player.id", req.Player.ID, "room.id", existing.ID)
	existing.Reconnect(ctx, req.Player)
	if req.Mode != "" && req.Mode != existing.Mode() {
		existing.SetMode(ctx, req.Mode)
	}
}

// createAndStartRoom seats the human and a bot, then starts the room goroutines.
func (h *Hub) createAndStartRoom(ctx context.Context, snap *game.Snapshot, settings game.Settings, p *player.Player) {
	ctx, span := tracer.Start(ctx, "hub.createAndStartRoom", trace.WithAttributes(
		attribute.String("room.id", snap.RoomID),
		attribute.String("player.id", p.ID),
	))
	defer span.End()

	newRoom := room.NewRoom(snap, settings, h.stores, h.publisher)
	newRoom.AddPlayer(p)
	newRoom.AddPlayer(bot.NewBotPlayer(settings.Difficulty, newRoom.IncomingMoves(), h.botOptions...))
	h.localRooms[p.ID] = newRoom

	if h.stores.Players != nil {
		if err := h.stores.Players.SetOnline(ctx, p.ID, newRoom.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to set player online", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to set player online")
		}
	}

	go newRoom.Start(h.unregister)
	slog.InfoContext(ctx, "Room created", "room.id", newRoom.ID, "player.id", p.ID, "game.mode", snap.Mode)

	newRoom.SendInitialState(ctx)
}

// handleUnregister closes the room of a player whose reconnection grace period ran out.
// Players that were already replaced by a newer connection are ignored.
func (h *Hub) handleUnregister(p *player.Player) {
	r, ok := h.localRooms[p.ID]
	if !ok || !r.HasPlayer(p) {
		return
	}
	r.Stop()
	delete(h.localRooms, p.ID)
	slog.Info("Room closed after player left", "room.id", r.ID, "player.id", p.ID)
}

func newSnapshot(playerID string) *game.Snapshot {
	return &game.Snapshot{
		RoomID:   uuid.New().String(),
		PlayerID: playerID,
		Mode:     game.ModeHuman,
		Game:     *game.NewGame(),
	}
}
