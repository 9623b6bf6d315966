package service

import (
	"context"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/game"
)

// EngineService exposes the rules engine and the move selector without a session.
type EngineService interface {
	SelectMove(ctx context.Context, board game.Board, difficulty game.Difficulty, aiMark game.PlayerMark) (int, bool)
	Outcome(board game.Board) game.Outcome
	Apply(board game.Board, index int, mark game.PlayerMark) (game.Board, game.Outcome, error)
}

type engineService struct {
	calculator *bot.BotMoveCalculator
}

// NewEngineService creates a new EngineService.
func NewEngineService(calculator *bot.BotMoveCalculator) EngineService {
	return &engineService{calculator: calculator}
}

func (s *engineService) SelectMove(ctx context.Context, board game.Board, difficulty game.Difficulty, aiMark game.PlayerMark) (int, bool) {
	index := s.calculator.CalculateNextMove(ctx, board, aiMark, difficulty)
	return index, index != bot.NoMove
}

func (s *engineService) Outcome(board game.Board) game.Outcome {
	return game.CheckOutcome(board)
}

func (s *engineService) Apply(board game.Board, index int, mark game.PlayerMark) (game.Board, game.Outcome, error) {
	next, err := game.ApplyMove(board, index, mark)
	if err != nil {
		return board, game.Outcome{}, err
	}
	return next, game.CheckOutcome(next), nil
}
