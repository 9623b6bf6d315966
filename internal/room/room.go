package room

import (
	"context"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/internal/repository"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	heartbeatInterval = 10 * time.Second
)

var reconnectionGracePeriod = 60 * time.Second

var (
	tracer = otel.Tracer("room")
	meter  = otel.Meter("room")
)

// difficultySetter is implemented by connections of AI players.
type difficultySetter interface {
	SetDifficulty(d game.Difficulty)
}

// StatsRecorder stores the result of a finished AI game for a registered user.
type StatsRecorder interface {
	RecordGame(ctx context.Context, userID int64, result models.GameResult) error
}

// Stores groups the persistence a room writes through.
type Stores struct {
	Sessions repository.SessionRepository
	Settings repository.SettingsRepository
	Players  repository.PlayerRepository
	Stats    StatsRecorder
}

// Room is one browser session: a human player, the bot seat and the running score.
// All state is owned by the run loop and guarded by mu.
type Room struct {
	ID       string
	PlayerID string

	stores    Stores
	publisher events.Publisher

	mu       sync.Mutex
	Players  []*player.Player
	game     *game.Game
	scores   game.Scoreboard
	mode     game.Mode
	settings game.Settings

	// generation counts board resets; see versionLocked.
	generation int

	incomingMoves chan *types.PlayerMove
	unregister    chan *player.Player
	Done          chan struct{}
	stopOnce      sync.Once

	gamesFinished metric.Int64Counter
}

// NewRoom creates a room resuming snap.
func NewRoom(snap *game.Snapshot, settings game.Settings, stores Stores, publisher events.Publisher) *Room {
	g := snap.Game
	if g.CurrentTurn == game.None {
		g = *game.NewGame()
	}
	mode := snap.Mode
	if mode == "" {
		mode = game.ModeHuman
	}

	gamesFinished, err := meter.Int64Counter(
		"room.games.finished",
		metric.WithDescription("Number of finished games"),
	)
	if err != nil {
		slog.Warn("failed to create room.games.finished counter", "error", err)
	}

	return &Room{
		ID:            snap.RoomID,
		PlayerID:      snap.PlayerID,
		stores:        stores,
		publisher:     publisher,
		Players:       make([]*player.Player, 0, 2),
		game:          &g,
		scores:        snap.Scores,
		mode:          mode,
		settings:      settings,
		incomingMoves: make(chan *types.PlayerMove, 10),
		unregister:    make(chan *player.Player),
		Done:          make(chan struct{}),
		gamesFinished: gamesFinished,
	}
}

// Start launches the read pumps and the game loop, then forwards players that
// exceeded the reconnection grace period to unregisterPlayer until the room stops.
func (r *Room) Start(unregisterPlayer chan<- *player.Player) {
	r.mu.Lock()
	for _, p := range r.Players {
		if !p.IsBot {
			go r.ReadPump(p)
		}
	}
	r.mu.Unlock()
	go r.run()

	for {
		select {
		case <-r.Done:
			return
		case p := <-r.unregister:
			select {
			case unregisterPlayer <- p:
			case <-r.Done:
				return
			}
		}
	}
}

// Stop ends the game loop and closes every connection. It is safe to call more than once.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.Done)
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, p := range r.Players {
			if p.Conn != nil {
				_ = p.Conn.Close()
			}
		}
	})
}

// run is the main game loop for the room.
func (r *Room) run() {
	pingTicker := time.NewTicker(heartbeatInterval)
	cleanupTicker := time.NewTicker(reconnectionGracePeriod)

	defer func() {
		pingTicker.Stop()
		cleanupTicker.Stop()
	}()

	for {
		select {
		case <-r.Done:
			slog.Info("Room run goroutine stopping.", "room.id", r.ID)
			return

		case move := <-r.incomingMoves:
			r.HandleMessage(move.Player, move.Message)

		case <-pingTicker.C:
			r.mu.Lock()
			for _, p := range r.Players {
				if !p.IsBot && p.Status == player.StatusConnected {
					if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", p.ID, "error", err)
					}
				}
			}
			r.mu.Unlock()

		case <-cleanupTicker.C:
			for _, p := range r.expiredPlayers(time.Now()) {
				slog.Info("Player exceeded reconnection grace period. Removing from room.", "player.id", p.ID, "room.id", r.ID)
				select {
				case r.unregister <- p:
				case <-r.Done:
					return
				}
			}
		}
	}
}

func (r *Room) expiredPlayers(now time.Time) []*player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []*player.Player
	for _, p := range r.Players {
		if !p.IsBot && p.Status == player.StatusDisconnected && now.Sub(p.LastSeen) > reconnectionGracePeriod {
			expired = append(expired, p)
		}
	}
	return expired
}

// Snapshot returns the persisted form of the room.
func (r *Room) Snapshot() *game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *game.Snapshot {
	g := *r.game
	return &game.Snapshot{
		RoomID:   r.ID,
		PlayerID: r.PlayerID,
		Mode:     r.mode,
		Game:     g,
		Scores:   r.scores,
	}
}

// persist saves the session snapshot. Failures are logged; the in-memory game stays authoritative.
func (r *Room) persist(ctx context.Context) {
	if r.stores.Sessions == nil {
		return
	}
	if err := r.stores.Sessions.Save(ctx, r.snapshotLocked()); err != nil {
		slog.ErrorContext(ctx, "failed to persist session", "room.id", r.ID, "player.id", r.PlayerID, "error", err)
	}
}
