package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"neonttt/Tic-Tac-Toe/pkg/proto"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultThinkDelay is how long the bot waits before answering a move.
const DefaultThinkDelay = 500 * time.Millisecond

// Option configures a BotConnection.
type Option func(*BotConnection)

// WithThinkDelay sets the simulated thinking time.
func WithThinkDelay(d time.Duration) Option {
	return func(bc *BotConnection) { bc.thinkDelay = d }
}

// WithCalculator replaces the move calculator.
func WithCalculator(c *BotMoveCalculator) Option {
	return func(bc *BotConnection) { bc.calculator = c }
}

// BotConnection simulates a websocket connection for a bot player.
// It implements the player.Connection interface.
type BotConnection struct {
	playerID      string
	player        *player.Player
	incomingMoves chan<- *types.PlayerMove
	calculator    *BotMoveCalculator
	thinkDelay    time.Duration

	mu         sync.Mutex
	mark       game.PlayerMark // Stores the bot's mark ('X' or 'O'), None while idle
	difficulty game.Difficulty

	closeOnce sync.Once
	closed    chan struct{}
}

// NewBotConnection creates a new connection for a bot.
func NewBotConnection(playerID string, difficulty game.Difficulty, p *player.Player, incomingMoves chan<- *types.PlayerMove, opts ...Option) *BotConnection {
	bc := &BotConnection{
		playerID:      playerID,
		player:        p,
		incomingMoves: incomingMoves,
		thinkDelay:    DefaultThinkDelay,
		difficulty:    difficulty,
		closed:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(bc)
	}
	if bc.calculator == nil {
		bc.calculator = NewBotMoveCalculator(nil)
	}
	return bc
}

// SetDifficulty changes the tier used for the next move.
func (bc *BotConnection) SetDifficulty(d game.Difficulty) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.difficulty = d
}

// Difficulty returns the current tier.
func (bc *BotConnection) Difficulty() game.Difficulty {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.difficulty
}

// Mark returns the bot's assigned mark.
func (bc *BotConnection) Mark() game.PlayerMark {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.mark
}

// WriteMessage is called by the room to send game state to the bot.
func (bc *BotConnection) WriteMessage(messageType int, data []byte) error {
	// First, try to unmarshal as a generic message to find the type
	var genericMsg map[string]any
	if err := json.Unmarshal(data, &genericMsg); err != nil {
		return err
	}

	msgType, ok := genericMsg["type"].(string)
	if !ok {
		return nil // Not a valid message for the bot
	}

	switch msgType {
	case proto.TypeAssignment:
		var msg proto.PlayerAssignmentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		bc.mu.Lock()
		bc.mark = msg.Mark
		bc.mu.Unlock()
		slog.Debug("Bot assigned mark", "player.id", bc.playerID, "mark", msg.Mark)

	case proto.TypeUpdate:
		var msg proto.ServerToClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}

		bc.mu.Lock()
		mark, difficulty := bc.mark, bc.difficulty
		bc.mu.Unlock()

		// The bot only acts if it has a mark, it's its turn, and the game is still running
		if mark != game.None && msg.Next == mark && msg.Status == game.InProgress {
			slog.Debug("Bot is thinking...", "player.id", bc.playerID, "mark", mark, "bot.difficulty", difficulty)
			go bc.play(game.BoardFromSlice(msg.Board), msg.Version, mark, difficulty)
		}
	}

	return nil
}

// play answers the board at version. The room drops the answer if the board moved on meanwhile.
func (bc *BotConnection) play(board game.Board, version int, mark game.PlayerMark, difficulty game.Difficulty) {
	if bc.thinkDelay > 0 {
		timer := time.NewTimer(bc.thinkDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-bc.closed:
			return
		}
	}

	index := bc.calculator.CalculateNextMove(context.Background(), board, mark, difficulty)
	if index == NoMove {
		return
	}

	moveBytes, err := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeMove, Index: &index, Version: &version})
	if err != nil {
		slog.Error("Bot failed to marshal move", "player.id", bc.playerID, "error", err)
		return
	}

	select {
	case bc.incomingMoves <- &types.PlayerMove{Player: bc.player, Message: moveBytes}:
	case <-bc.closed:
	}
}

// ReadMessage is never called for bots; moves are pushed straight into the room.
func (bc *BotConnection) ReadMessage() (int, []byte, error) {
	return 0, nil, io.EOF
}

// Close stops any pending move.
func (bc *BotConnection) Close() error {
	bc.closeOnce.Do(func() { close(bc.closed) })
	return nil
}

// NewBotPlayer creates a new player instance that is a bot feeding moves into incomingMoves.
func NewBotPlayer(difficulty game.Difficulty, incomingMoves chan<- *types.PlayerMove, opts ...Option) *player.Player {
	botID := "bot-" + uuid.New().String()[:8]
	p := player.NewPlayer(botID, nil)
	p.IsBot = true
	p.Conn = NewBotConnection(botID, difficulty, p, incomingMoves, opts...)
	return p
}
