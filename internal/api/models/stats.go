package models

import "neonttt/Tic-Tac-Toe/internal/game"

// GameResult is a finished AI game seen from the human's side.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// ResultFor maps a terminal outcome to the human's result. ok is false for
// unfinished games and for games without a human mark.
func ResultFor(status game.Status, winner, humanMark game.PlayerMark) (GameResult, bool) {
	if humanMark == game.None {
		return "", false
	}
	switch status {
	case game.Draw:
		return ResultDraw, true
	case game.Won:
		if winner == humanMark {
			return ResultWin, true
		}
		return ResultLoss, true
	}
	return "", false
}

// UserStats are the lifetime counters of a registered user against the AI.
type UserStats struct {
	UserID int64 `db:"user_id" json:"user_id"`
	Wins   int   `db:"wins" json:"wins"`
	Losses int   `db:"losses" json:"losses"`
	Draws  int   `db:"draws" json:"draws"`
}

// Total is the number of recorded games.
func (s UserStats) Total() int {
	return s.Wins + s.Losses + s.Draws
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	UserStats
	GamesPlayed int `json:"games_played"`
}
