package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Status is the coarse state of a board.
type Status string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board statuses
	InProgress Status = "in_progress"
	Won        Status = "won"
	Draw       Status = "draw"

	// Board boundaries
	BoardSize = 9
	CellMin   = 0
	CellMax   = BoardSize - 1
	Center    = 4
)

// Errors returned by the rules engine. Every refinement wraps ErrInvalidMove.
var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfRange   = fmt.Errorf("%w: cell out of range", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell already occupied", ErrInvalidMove)
	ErrInvalidMark  = fmt.Errorf("%w: unknown player mark", ErrInvalidMove)

	ErrInvalidBoard = errors.New("invalid board")
)

// WinningCombinations lists every line of three cells, rows first, then columns, then diagonals.
var WinningCombinations = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // Rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // Columns
	{0, 4, 8}, {2, 4, 6}, // Diagonals
}

// Corners are the four corner cells.
var Corners = [4]int{0, 2, 6, 8}

// Board is a fixed 3x3 board stored row-major: cell r*3+c is row r, column c.
type Board [BoardSize]PlayerMark

// Outcome is the result of evaluating a board.
// Line is only set when Status is Won and holds the completed combination.
type Outcome struct {
	Status Status     `json:"status"`
	Winner PlayerMark `json:"winner,omitempty"`
	Line   []int      `json:"line,omitempty"`
}

// IsOver reports whether the board is terminal.
func (o Outcome) IsOver() bool {
	return o.Status == Won || o.Status == Draw
}

// ApplyMove returns a copy of b with mark placed at index.
// The input board is never modified.
func ApplyMove(b Board, index int, mark PlayerMark) (Board, error) {
	if index < CellMin || index > CellMax {
		return b, fmt.Errorf("cell %d: %w", index, ErrOutOfRange)
	}
	if mark != PlayerX && mark != PlayerO {
		return b, fmt.Errorf("mark %q: %w", mark, ErrInvalidMark)
	}
	if b[index] != None {
		return b, fmt.Errorf("cell %d: %w", index, ErrCellOccupied)
	}

	b[index] = mark
	return b, nil
}

// CheckOutcome scans the winning combinations in table order and reports the first
// completed line. A full board without a line is a draw.
func CheckOutcome(b Board) Outcome {
	for _, line := range WinningCombinations {
		first := b[line[0]]
		if first != None && first == b[line[1]] && first == b[line[2]] {
			return Outcome{
				Status: Won,
				Winner: first,
				Line:   []int{line[0], line[1], line[2]},
			}
		}
	}

	if b.IsFull() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// IsFull checks if every cell is occupied.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of the empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// BoardFromSlice copies up to nine marks from a slice into a Board.
func BoardFromSlice(cells []PlayerMark) Board {
	var b Board
	copy(b[:], cells)
	return b
}

// ParseBoard converts untrusted cells into a Board. It requires exactly nine
// cells, each empty, X or O.
func ParseBoard(cells []PlayerMark) (Board, error) {
	var b Board
	if len(cells) != BoardSize {
		return b, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, BoardSize, len(cells))
	}
	for i, cell := range cells {
		if cell != None && cell != PlayerX && cell != PlayerO {
			return b, fmt.Errorf("%w: cell %d holds %q", ErrInvalidBoard, i, cell)
		}
		b[i] = cell
	}
	return b, nil
}
