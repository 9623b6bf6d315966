package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrGameOver is returned when a move is attempted on a finished game.
var ErrGameOver = errors.New("game already finished")

// Game is a single match between X and O. X always moves first.
type Game struct {
	Board       Board      `json:"board"`
	CurrentTurn PlayerMark `json:"currentTurn"`
	Outcome     Outcome    `json:"outcome"`
	Active      bool       `json:"active"`
}

// NewGame returns an empty game with X to move.
func NewGame() *Game {
	return &Game{
		CurrentTurn: PlayerX,
		Outcome:     Outcome{Status: InProgress},
		Active:      true,
	}
}

// Move places the current player's mark at index and advances the turn.
// The turn does not change when the move ends the game.
func (g *Game) Move(index int) (Outcome, error) {
	if !g.Active {
		return g.Outcome, ErrGameOver
	}

	board, err := ApplyMove(g.Board, index, g.CurrentTurn)
	if err != nil {
		return g.Outcome, err
	}
	g.Board = board
	g.Outcome = CheckOutcome(board)

	if g.Outcome.IsOver() {
		g.Active = false
		return g.Outcome, nil
	}

	g.CurrentTurn = g.CurrentTurn.Opponent()
	return g.Outcome, nil
}

// Reset clears the board and gives the first move back to X.
func (g *Game) Reset() {
	*g = *NewGame()
}

// MoveCount returns the number of occupied cells.
func (g *Game) MoveCount() int {
	return BoardSize - len(g.Board.EmptyCells())
}

// Scoreboard holds the running tallies of a session.
type Scoreboard struct {
	X           int `json:"x"`
	O           int `json:"o"`
	Draws       int `json:"draws"`
	GamesPlayed int `json:"gamesPlayed"`
}

// Record counts a finished game. In-progress outcomes are ignored.
func (s *Scoreboard) Record(o Outcome) {
	switch o.Status {
	case Won:
		if o.Winner == PlayerX {
			s.X++
		} else {
			s.O++
		}
	case Draw:
		s.Draws++
	default:
		return
	}
	s.GamesPlayed++
}

// WinRate is the share of decisive games as a rounded percentage.
func (s Scoreboard) WinRate() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(s.X+s.O) / float64(s.GamesPlayed) * 100))
}

// Mode selects who plays O.
type Mode string

const (
	ModeHuman Mode = "human" // hot-seat, one browser plays both marks
	ModeAI    Mode = "ai"    // the human plays X against the bot
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeHuman, ModeAI:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// Difficulty is the strength tier of the AI opponent.
type Difficulty string

const (
	Easy       Difficulty = "easy"
	Medium     Difficulty = "medium"
	Hard       Difficulty = "hard"
	Impossible Difficulty = "impossible"
)

// Difficulties lists every tier from weakest to strongest.
var Difficulties = []Difficulty{Easy, Medium, Hard, Impossible}

// ParseDifficulty validates a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Settings are the player's preferences. Only Difficulty affects the engine;
// the toggles are stored for the browser.
type Settings struct {
	Difficulty Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard impossible"`
	Animations bool       `json:"animations"`
	Sounds     bool       `json:"sounds"`
}

// DefaultSettings returns the settings used before a player saves any.
func DefaultSettings() Settings {
	return Settings{Difficulty: Medium, Animations: true, Sounds: true}
}

// Snapshot is the persisted state of a browser session.
type Snapshot struct {
	RoomID   string     `json:"roomId"`
	PlayerID string     `json:"playerId"`
	Mode     Mode       `json:"mode"`
	Game     Game       `json:"game"`
	Scores   Scoreboard `json:"scores"`
}
