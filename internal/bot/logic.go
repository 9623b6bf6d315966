package bot

import (
	"math/rand/v2"
	"neonttt/Tic-Tac-Toe/internal/game"
)

// NoMove is returned in place of a cell index when the board has no empty cell.
const NoMove = -1

// Score bounds for minimax. A win is worth winScore minus the depth at which it happens.
const (
	winScore = 10
	minScore = -winScore - game.BoardSize
	maxScore = winScore + game.BoardSize
)

// Selector picks AI moves. Its random source drives Easy, the random fallbacks of
// Medium and Hard, and Hard's corner choice. Impossible is deterministic.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a Selector. A nil rng uses the global math/rand/v2 source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

var defaultSelector = NewSelector(nil)

// SelectMove determines the AI's next move with the package-level random source.
func SelectMove(board game.Board, difficulty game.Difficulty, aiMark game.PlayerMark) (int, bool) {
	return defaultSelector.SelectMove(board, difficulty, aiMark)
}

// SelectMove determines the AI's next move based on the specified difficulty.
// Unknown difficulties play as Medium. ok is false when the board is full
// or aiMark is neither X nor O.
func (s *Selector) SelectMove(board game.Board, difficulty game.Difficulty, aiMark game.PlayerMark) (index int, ok bool) {
	if aiMark != game.PlayerX && aiMark != game.PlayerO {
		return NoMove, false
	}
	switch difficulty {
	case game.Easy:
		index = s.easyMove(board)
	case game.Hard:
		index = s.hardMove(board, aiMark)
	case game.Impossible:
		index = impossibleMove(board, aiMark)
	default:
		index = s.mediumMove(board, aiMark)
	}
	return index, index != NoMove
}

func (s *Selector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// easyMove makes a completely random move.
func (s *Selector) easyMove(board game.Board) int {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return NoMove
	}
	return availableMoves[s.intN(len(availableMoves))]
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func (s *Selector) mediumMove(board game.Board, botMark game.PlayerMark) int {
	if idx, found := tacticalMove(board, botMark); found {
		return idx
	}
	return s.easyMove(board)
}

// hardMove wins or blocks like mediumMove, then prefers the center and the corners.
func (s *Selector) hardMove(board game.Board, botMark game.PlayerMark) int {
	if idx, found := tacticalMove(board, botMark); found {
		return idx
	}

	if board[game.Center] == game.None {
		return game.Center
	}

	availableCorners := make([]int, 0, len(game.Corners))
	for _, corner := range game.Corners {
		if board[corner] == game.None {
			availableCorners = append(availableCorners, corner)
		}
	}
	if len(availableCorners) > 0 {
		return availableCorners[s.intN(len(availableCorners))]
	}

	return s.easyMove(board)
}

// tacticalMove is the win-then-block check shared by Medium and Hard.
func tacticalMove(board game.Board, botMark game.PlayerMark) (int, bool) {
	// 1. Win: Check if the bot can win in the next move
	if idx, canWin := findWinningMove(board, botMark); canWin {
		return idx, true
	}
	// 2. Block: Check if the opponent is about to win and block them
	if idx, canBlock := findWinningMove(board, botMark.Opponent()); canBlock {
		return idx, true
	}
	return NoMove, false
}

// findWinningMove returns the lowest empty index where mark completes a line.
func findWinningMove(board game.Board, mark game.PlayerMark) (int, bool) {
	for _, idx := range board.EmptyCells() {
		board[idx] = mark
		out := game.CheckOutcome(board)
		board[idx] = game.None
		if out.Status == game.Won && out.Winner == mark {
			return idx, true
		}
	}
	return NoMove, false
}

// impossibleMove runs a full minimax search and returns the first best-scoring cell.
func impossibleMove(board game.Board, botMark game.PlayerMark) int {
	scratch := board
	bestScore := minScore
	bestMove := NoMove

	for _, idx := range board.EmptyCells() {
		scratch[idx] = botMark
		score := minimax(&scratch, 0, false, botMark)
		scratch[idx] = game.None

		if score > bestScore {
			bestScore = score
			bestMove = idx
		}
	}
	return bestMove
}

// minimax scores a position from botMark's point of view. Wins found earlier score
// higher and losses found later score higher. Each placement on the scratch board is
// undone before the next sibling is explored.
func minimax(board *game.Board, depth int, maximizing bool, botMark game.PlayerMark) int {
	out := game.CheckOutcome(*board)
	switch {
	case out.Status == game.Won && out.Winner == botMark:
		return winScore - depth
	case out.Status == game.Won:
		return depth - winScore
	case out.Status == game.Draw:
		return 0
	}

	if maximizing {
		best := minScore
		for idx, cell := range board {
			if cell != game.None {
				continue
			}
			board[idx] = botMark
			best = max(best, minimax(board, depth+1, false, botMark))
			board[idx] = game.None
		}
		return best
	}

	best := maxScore
	opponent := botMark.Opponent()
	for idx, cell := range board {
		if cell != game.None {
			continue
		}
		board[idx] = opponent
		best = min(best, minimax(board, depth+1, true, botMark))
		board[idx] = game.None
	}
	return best
}
