package models

import "neonttt/Tic-Tac-Toe/internal/game"

// MoveRequest asks the engine for an AI move on a board.
type MoveRequest struct {
	Board      []game.PlayerMark `json:"board" binding:"required"`
	Difficulty string            `json:"difficulty"`
	AIMark     game.PlayerMark   `json:"ai_mark" binding:"required,oneof=X O"`
}

// MoveResponse carries the chosen cell. OK is false only on a full board.
type MoveResponse struct {
	Index int  `json:"index"`
	OK    bool `json:"ok"`
}

// OutcomeRequest asks the engine to evaluate a board.
type OutcomeRequest struct {
	Board []game.PlayerMark `json:"board" binding:"required"`
}

// ApplyRequest asks the engine to place a mark.
type ApplyRequest struct {
	Board []game.PlayerMark `json:"board" binding:"required"`
	Index *int              `json:"index" binding:"required"`
	Mark  game.PlayerMark   `json:"mark" binding:"required,oneof=X O"`
}

// ApplyResponse is the board after a move and its outcome.
type ApplyResponse struct {
	Board   []game.PlayerMark `json:"board"`
	Outcome game.Outcome      `json:"outcome"`
}
