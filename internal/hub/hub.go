package hub

import (
	"context"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/events"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/internal/room"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// Hub manages the rooms of this server instance, one per browser session.
// Its maps are only touched by the Run goroutine.
type Hub struct {
	rdb        *redis.Client
	stores     room.Stores
	publisher  events.Publisher
	botOptions []bot.Option

	localRooms map[string]*room.Room // keyed by player id
	register   chan *types.RegistrationRequest
	unregister chan *player.Player
	events     chan events.Event
}

// NewHub creates a new hub. A nil rdb disables the event subscriber.
// Rooms record finished games through stores.Stats.
func NewHub(rdb *redis.Client, stores room.Stores, publisher events.Publisher, botOptions ...bot.Option) *Hub {
	return &Hub{
		rdb:        rdb,
		stores:     stores,
		publisher:  publisher,
		botOptions: botOptions,
		localRooms: make(map[string]*room.Room),
		register:   make(chan *types.RegistrationRequest),
		unregister: make(chan *player.Player),
		events:     make(chan events.Event, 64),
	}
}

// Run processes registrations, expired players and global events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.runEventSubscriber(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Hub stopping", "rooms.count", len(h.localRooms))
			for playerID, r := range h.localRooms {
				r.Stop()
				delete(h.localRooms, playerID)
			}
			return

		case req := <-h.register:
			h.handleRegistration(req)

		case p := <-h.unregister:
			h.handleUnregister(p)

		case event := <-h.events:
			h.handleEvent(ctx, event)
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Unregister returns the unregister channel.
func (h *Hub) Unregister() chan<- *player.Player {
	return h.unregister
}
