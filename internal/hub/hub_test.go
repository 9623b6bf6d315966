package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/events"
	eventmocks "neonttt/Tic-Tac-Toe/internal/events/mocks"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/internal/repository"
	"neonttt/Tic-Tac-Toe/internal/repository/mocks"
	"neonttt/Tic-Tac-Toe/internal/room"
	"neonttt/Tic-Tac-Toe/pkg/proto"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeConn struct {
	mu        sync.Mutex
	written   [][]byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, io.EOF
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) last(t *testing.T, msgType string) proto.ServerToClientMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.written) - 1; i >= 0; i-- {
		var msg proto.ServerToClientMessage
		require.NoError(t, json.Unmarshal(c.written[i], &msg))
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("no %s written", msgType)
	return proto.ServerToClientMessage{}
}

func (c *fakeConn) lastUpdate(t *testing.T) proto.ServerToClientMessage {
	t.Helper()
	return c.last(t, proto.TypeUpdate)
}

type testHub struct {
	hub       *Hub
	sessions  *mocks.MockSessionRepository
	settings  *mocks.MockSettingsRepository
	players   *mocks.MockPlayerRepository
	publisher *eventmocks.MockPublisher
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	ctrl := gomock.NewController(t)
	th := &testHub{
		sessions:  mocks.NewMockSessionRepository(ctrl),
		settings:  mocks.NewMockSettingsRepository(ctrl),
		players:   mocks.NewMockPlayerRepository(ctrl),
		publisher: eventmocks.NewMockPublisher(ctrl),
	}
	stores := room.Stores{Sessions: th.sessions, Settings: th.settings, Players: th.players}
	th.hub = NewHub(nil, stores, th.publisher, bot.WithThinkDelay(0))

	// Rooms stopped at cleanup report their human as disconnected.
	th.players.EXPECT().UpdateConnectionStatus(gomock.Any(), gomock.Any(), player.StatusDisconnected).Return(nil).AnyTimes()
	th.publisher.EXPECT().Publish(gomock.Any(), events.TypePlayerDisconnected, gomock.Any()).Return(nil).AnyTimes()
	t.Cleanup(func() {
		for _, r := range th.hub.localRooms {
			r.Stop()
		}
	})
	return th
}

func (th *testHub) register(p *player.Player, mode game.Mode) {
	th.hub.handleRegistration(&types.RegistrationRequest{Player: p, Mode: mode, Ctx: context.Background()})
}

func TestRegisterNewSession(t *testing.T) {
	th := newTestHub(t)
	conn := newFakeConn()
	p := player.NewPlayer("p1", conn)

	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(nil, fmt.Errorf("session p1: %w", repository.ErrNotFound))
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.Settings{Difficulty: game.Hard, Animations: true}, nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", gomock.Any()).Return(nil)

	th.register(p, "")

	r, ok := th.hub.localRooms["p1"]
	require.True(t, ok)
	assert.True(t, r.HasPlayer(p))
	assert.Equal(t, game.ModeHuman, r.Mode())
	assert.NotEmpty(t, r.ID)

	update := conn.lastUpdate(t)
	assert.Equal(t, game.PlayerX, update.Next)
	assert.Equal(t, game.InProgress, update.Status)
}

func TestRegisterRestoresSnapshot(t *testing.T) {
	th := newTestHub(t)
	conn := newFakeConn()
	p := player.NewPlayer("p1", conn)

	g := game.NewGame()
	_, _ = g.Move(0)
	_, _ = g.Move(4)
	snap := &game.Snapshot{RoomID: "room-7", PlayerID: "p1", Mode: game.ModeAI, Game: *g, Scores: game.Scoreboard{O: 2, GamesPlayed: 2}}

	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(snap, nil)
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", "room-7").Return(nil)

	th.register(p, "")

	r := th.hub.localRooms["p1"]
	require.NotNil(t, r)
	assert.Equal(t, "room-7", r.ID)
	assert.Equal(t, game.ModeAI, r.Mode())

	update := conn.lastUpdate(t)
	assert.Equal(t, game.PlayerX, update.Board[0])
	assert.Equal(t, game.PlayerO, update.Board[4])
	assert.Equal(t, 2, update.Scores.O)
}

func TestRegisterWithNewModeResetsRestoredBoard(t *testing.T) {
	th := newTestHub(t)
	conn := newFakeConn()

	g := game.NewGame()
	_, _ = g.Move(0)
	snap := &game.Snapshot{RoomID: "room-7", PlayerID: "p1", Mode: game.ModeHuman, Game: *g}

	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(snap, nil)
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", "room-7").Return(nil)

	th.register(player.NewPlayer("p1", conn), game.ModeAI)

	update := conn.lastUpdate(t)
	assert.Equal(t, game.ModeAI, update.Mode)
	assert.Equal(t, game.None, update.Board[0])
}

func TestRegisterFallsBackToNewSessionOnStoreError(t *testing.T) {
	th := newTestHub(t)
	conn := newFakeConn()

	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(nil, fmt.Errorf("connection refused"))
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), fmt.Errorf("connection refused"))
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", gomock.Any()).Return(nil)

	th.register(player.NewPlayer("p1", conn), "")

	require.Contains(t, th.hub.localRooms, "p1")
	assert.Equal(t, game.PlayerX, conn.lastUpdate(t).Next)
}

func TestRegisterResumesLiveRoom(t *testing.T) {
	th := newTestHub(t)
	firstConn := newFakeConn()
	first := player.NewPlayer("p1", firstConn)

	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(nil, repository.ErrNotFound)
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", gomock.Any()).Return(nil).Times(2)
	th.publisher.EXPECT().Publish(gomock.Any(), events.TypePlayerReconnected, gomock.Any()).Return(nil)
	th.register(first, "")
	r := th.hub.localRooms["p1"]

	secondConn := newFakeConn()
	second := player.NewPlayer("p1", secondConn)
	th.register(second, "")

	assert.Same(t, r, th.hub.localRooms["p1"], "the live room is reused")
	assert.True(t, firstConn.isClosed())
	assert.True(t, r.HasPlayer(second))
	assert.Equal(t, game.PlayerX, secondConn.lastUpdate(t).Next)

	// The replaced player timing out must not close the live room.
	th.hub.handleUnregister(first)
	assert.Contains(t, th.hub.localRooms, "p1")

	th.hub.handleUnregister(second)
	assert.NotContains(t, th.hub.localRooms, "p1")
	select {
	case <-r.Done:
	case <-time.After(time.Second):
		t.Fatal("room was not stopped")
	}
}

func TestSettingsChangedRetunesLiveRoom(t *testing.T) {
	th := newTestHub(t)
	conn := newFakeConn()
	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(nil, repository.ErrNotFound)
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", gomock.Any()).Return(nil)
	th.register(player.NewPlayer("p1", conn), game.ModeAI)

	want := game.Settings{Difficulty: game.Impossible, Sounds: true}
	event, err := events.NewEvent(events.TypeSettingsChanged, events.SettingsChangedPayload{PlayerID: "p1", Settings: want})
	require.NoError(t, err)
	// The settings repository mock rejects a second save; the REST API already stored them.
	th.hub.handleEvent(context.Background(), event)

	last := conn.last(t, proto.TypeSettings)
	require.NotNil(t, last.Settings)
	assert.Equal(t, want, *last.Settings)

	// Sessions hosted elsewhere are ignored.
	other, err := events.NewEvent(events.TypeSettingsChanged, events.SettingsChangedPayload{PlayerID: "p2", Settings: want})
	require.NoError(t, err)
	th.hub.handleEvent(context.Background(), other)
}

func TestHandleEventIgnoresMalformedPayload(t *testing.T) {
	th := newTestHub(t)
	th.hub.handleEvent(context.Background(), events.Event{Type: events.TypeGameFinished, Payload: json.RawMessage(`"oops"`)})
	th.hub.handleEvent(context.Background(), events.Event{Type: events.TypeSettingsChanged, Payload: json.RawMessage(`[]`)})
	th.hub.handleEvent(context.Background(), events.Event{Type: "unknown", Payload: json.RawMessage(`{}`)})

	event, err := events.NewEvent(events.TypeGameFinished, events.GameFinishedPayload{RoomID: "r", PlayerID: "p"})
	require.NoError(t, err)
	th.hub.handleEvent(context.Background(), event)
	assert.Empty(t, th.hub.localRooms)
}

func TestDecodeEvent(t *testing.T) {
	event, err := decodeEvent(context.Background(), `{"event":"player_disconnected","payload":{"room_id":"r","player_id":"p"}}`)
	require.NoError(t, err)
	assert.Equal(t, events.TypePlayerDisconnected, event.Type)

	_, err = decodeEvent(context.Background(), "not json")
	assert.Error(t, err)
}

func TestRunStopsRoomsOnShutdown(t *testing.T) {
	th := newTestHub(t)
	th.sessions.EXPECT().FindByPlayerID(gomock.Any(), "p1").Return(nil, repository.ErrNotFound)
	th.settings.EXPECT().Get(gomock.Any(), "p1").Return(game.DefaultSettings(), nil)
	th.players.EXPECT().SetOnline(gomock.Any(), "p1", gomock.Any()).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		th.hub.Run(ctx)
		close(done)
	}()

	conn := newFakeConn()
	th.hub.Register() <- &types.RegistrationRequest{Player: player.NewPlayer("p1", conn), Ctx: context.Background()}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.True(t, conn.isClosed())
	assert.Empty(t, th.hub.localRooms)
}
