package bot

import (
	"math/rand/v2"
	"neonttt/Tic-Tac-Toe/internal/game"
	"slices"
	"testing"
)

const (
	x = game.PlayerX
	o = game.PlayerO
	e = game.None
)

var fullBoard = game.Board{
	x, o, x,
	o, x, o,
	o, x, o,
}

func seeded(seed uint64) *Selector {
	return NewSelector(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		mark      game.PlayerMark
		wantIndex int
		wantFound bool
	}{
		{
			name:      "No winning move - empty board",
			board:     game.Board{},
			mark:      x,
			wantIndex: NoMove, wantFound: false,
		},
		{
			name: "X can win - first row",
			board: game.Board{
				x, x, e,
				o, o, e,
				e, e, e,
			},
			mark:      x,
			wantIndex: 2, wantFound: true,
		},
		{
			name: "O can win - second column",
			board: game.Board{
				x, o, e,
				x, o, e,
				e, e, e,
			},
			mark:      o,
			wantIndex: 7, wantFound: true,
		},
		{
			name: "X can win - main diagonal",
			board: game.Board{
				x, e, e,
				e, x, e,
				e, e, e,
			},
			mark:      x,
			wantIndex: 8, wantFound: true,
		},
		{
			name: "O can win - anti-diagonal",
			board: game.Board{
				e, e, o,
				e, o, e,
				e, e, e,
			},
			mark:      o,
			wantIndex: 6, wantFound: true,
		},
		{
			name: "Two winning cells - lowest index wins",
			board: game.Board{
				x, e, x,
				e, e, e,
				x, e, e,
			},
			mark:      x,
			wantIndex: 1, wantFound: true,
		},
		{
			name:      "Full board, no win possible",
			board:     fullBoard,
			mark:      x,
			wantIndex: NoMove, wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.board
			idx, found := findWinningMove(tt.board, tt.mark)
			if found != tt.wantFound || idx != tt.wantIndex {
				t.Errorf("findWinningMove() got (%d, %v), want (%d, %v)", idx, found, tt.wantIndex, tt.wantFound)
			}
			if tt.board != before {
				t.Errorf("findWinningMove() modified the board")
			}
		})
	}
}

func TestEasyMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		board := game.Board{
			x, o, x,
			o, x, o,
			x, e, o,
		}
		if idx := seeded(1).easyMove(board); idx != 7 {
			t.Errorf("easyMove should pick the only available spot 7, but got %d", idx)
		}
	})

	t.Run("Every empty cell is reachable", func(t *testing.T) {
		board := game.Board{
			x, e, e,
			e, o, e,
			e, e, x,
		}
		s := seeded(2)
		seen := map[int]int{}
		for i := 0; i < 2000; i++ {
			idx := s.easyMove(board)
			if board[idx] != e {
				t.Fatalf("easyMove returned an occupied cell %d", idx)
			}
			seen[idx]++
		}
		for _, idx := range board.EmptyCells() {
			// 2000 draws over 6 cells: each cell expects ~333.
			if seen[idx] < 200 {
				t.Errorf("cell %d chosen %d times, distribution looks biased: %v", idx, seen[idx], seen)
			}
		}
	})

	t.Run("Full board", func(t *testing.T) {
		if idx := seeded(3).easyMove(fullBoard); idx != NoMove {
			t.Errorf("easyMove on a full board should return NoMove, but got %d", idx)
		}
	})
}

func TestMediumMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		botMark   game.PlayerMark
		wantIndex int // NoMove means any empty cell
	}{
		{
			name: "Bot takes the win instead of blocking",
			board: game.Board{
				o, o, e,
				x, x, e,
				e, e, e,
			},
			botMark:   o,
			wantIndex: 2,
		},
		{
			name: "Bot must block opponent",
			board: game.Board{
				o, o, e,
				x, e, e,
				e, e, e,
			},
			botMark:   x,
			wantIndex: 2,
		},
		{
			name: "Block picks the lowest threatened cell",
			board: game.Board{
				e, x, x,
				e, o, e,
				e, e, x,
			},
			botMark:   o,
			wantIndex: 0,
		},
		{
			name: "No immediate win or block, random move",
			board: game.Board{
				x, e, e,
				e, o, e,
				e, e, e,
			},
			botMark:   x,
			wantIndex: NoMove,
		},
	}

	s := seeded(4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				idx := s.mediumMove(tt.board, tt.botMark)
				if tt.wantIndex == NoMove {
					if idx == NoMove || tt.board[idx] != e {
						t.Fatalf("mediumMove returned a non-empty spot %d for random move", idx)
					}
					continue
				}
				if idx != tt.wantIndex {
					t.Fatalf("mediumMove() got %d, want %d", idx, tt.wantIndex)
				}
			}
		})
	}

	t.Run("Full board", func(t *testing.T) {
		if idx := s.mediumMove(fullBoard, x); idx != NoMove {
			t.Errorf("mediumMove on a full board should return NoMove, got %d", idx)
		}
	})
}

func TestHardMove(t *testing.T) {
	corners := game.Corners[:]

	tests := []struct {
		name    string
		board   game.Board
		botMark game.PlayerMark
		want    []int
	}{
		{
			name: "Bot can win",
			board: game.Board{
				o, o, e,
				x, x, e,
				e, e, e,
			},
			botMark: o,
			want:    []int{2},
		},
		{
			name: "Bot must block opponent",
			board: game.Board{
				o, o, e,
				x, e, e,
				e, e, e,
			},
			botMark: x,
			want:    []int{2},
		},
		{
			name:    "Take center on empty board",
			board:   game.Board{},
			botMark: o,
			want:    []int{game.Center},
		},
		{
			name: "Take center",
			board: game.Board{
				o, e, e,
				e, e, e,
				e, e, e,
			},
			botMark: x,
			want:    []int{game.Center},
		},
		{
			name: "Take corner (random)",
			board: game.Board{
				e, e, e,
				e, o, e,
				e, e, e,
			},
			botMark: x,
			want:    corners,
		},
		{
			name: "Take side when center and corners are gone",
			board: game.Board{
				o, e, x,
				e, x, e,
				o, e, x,
			},
			botMark: o,
			want:    []int{1, 3, 5, 7},
		},
	}

	s := seeded(5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				idx := s.hardMove(tt.board, tt.botMark)
				if !slices.Contains(tt.want, idx) {
					t.Fatalf("hardMove() got %d, want one of %v", idx, tt.want)
				}
			}
		})
	}

	t.Run("Every free corner is reachable", func(t *testing.T) {
		board := game.Board{
			e, e, e,
			e, o, e,
			e, e, e,
		}
		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			seen[s.hardMove(board, x)] = true
		}
		for _, c := range corners {
			if !seen[c] {
				t.Errorf("corner %d never chosen", c)
			}
		}
	})

	t.Run("Full board", func(t *testing.T) {
		if idx := s.hardMove(fullBoard, x); idx != NoMove {
			t.Errorf("hardMove on a full board should return NoMove, got %d", idx)
		}
	})
}

func TestImpossibleMove(t *testing.T) {
	tests := []struct {
		name    string
		board   game.Board
		botMark game.PlayerMark
		want    int
	}{
		{
			name: "Wins immediately",
			board: game.Board{
				o, o, e,
				x, x, e,
				x, e, e,
			},
			botMark: o,
			want:    2,
		},
		{
			name: "Blocks the only threat",
			board: game.Board{
				x, x, e,
				e, o, e,
				e, e, e,
			},
			botMark: o,
			want:    2,
		},
		{
			name: "Answers a corner opening with the center",
			board: game.Board{
				x, e, e,
				e, e, e,
				e, e, e,
			},
			botMark: o,
			want:    4,
		},
		{
			name: "Wins rather than blocks",
			board: game.Board{
				x, x, e,
				o, o, e,
				x, e, e,
			},
			botMark: o,
			want:    5,
		},
		{
			name:    "Empty board picks the first optimal cell",
			board:   game.Board{},
			botMark: x,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.board
			if got := impossibleMove(tt.board, tt.botMark); got != tt.want {
				t.Errorf("impossibleMove() got %d, want %d", got, tt.want)
			}
			if tt.board != before {
				t.Errorf("impossibleMove() modified the board")
			}
		})
	}

	if got := impossibleMove(fullBoard, x); got != NoMove {
		t.Errorf("impossibleMove on a full board should return NoMove, got %d", got)
	}
}

func TestMinimaxScores(t *testing.T) {
	won := game.Board{o, o, o, x, x, e, x, e, e}
	if got := minimax(&won, 3, true, o); got != 7 {
		t.Errorf("AI win at depth 3: got %d, want 7", got)
	}
	if got := minimax(&won, 3, true, x); got != -7 {
		t.Errorf("opponent win at depth 3: got %d, want -7", got)
	}
	draw := game.Board{x, o, x, x, o, o, o, x, x}
	if got := minimax(&draw, 5, false, o); got != 0 {
		t.Errorf("draw: got %d, want 0", got)
	}
}

func TestSelectMove(t *testing.T) {
	// [O,O,_,X,X,_,_,_,_] with the AI as O: every tactical tier takes the win at 2.
	winBoard := game.Board{o, o, e, x, x, e, e, e, e}
	for _, d := range []game.Difficulty{game.Medium, game.Hard, game.Impossible} {
		t.Run("win "+string(d), func(t *testing.T) {
			idx, ok := seeded(6).SelectMove(winBoard, d, o)
			if !ok || idx != 2 {
				t.Errorf("SelectMove(%s) = (%d, %v), want (2, true)", d, idx, ok)
			}
		})
	}

	t.Run("hard takes center on empty board", func(t *testing.T) {
		idx, ok := SelectMove(game.Board{}, game.Hard, o)
		if !ok || idx != game.Center {
			t.Errorf("SelectMove(hard) = (%d, %v), want (4, true)", idx, ok)
		}
	})

	t.Run("unknown difficulty plays medium", func(t *testing.T) {
		idx, ok := seeded(7).SelectMove(winBoard, game.Difficulty("nightmare"), o)
		if !ok || idx != 2 {
			t.Errorf("SelectMove(unknown) = (%d, %v), want (2, true)", idx, ok)
		}
	})

	t.Run("full board returns the sentinel for every tier", func(t *testing.T) {
		for _, d := range game.Difficulties {
			idx, ok := seeded(8).SelectMove(fullBoard, d, o)
			if ok || idx != NoMove {
				t.Errorf("SelectMove(%s) on full board = (%d, %v), want (NoMove, false)", d, idx, ok)
			}
		}
	})

	t.Run("no mark returns the sentinel for every tier", func(t *testing.T) {
		for _, d := range game.Difficulties {
			for _, mark := range []game.PlayerMark{e, game.PlayerMark("Z")} {
				idx, ok := seeded(9).SelectMove(game.Board{x}, d, mark)
				if ok || idx != NoMove {
					t.Errorf("SelectMove(%s, %q) = (%d, %v), want (NoMove, false)", d, mark, idx, ok)
				}
			}
		}
	})
}

func TestImpossibleNeverLosesAgainstRandomOpponent(t *testing.T) {
	s := seeded(9)
	rng := rand.New(rand.NewPCG(10, 11))
	const trials = 300

	losses := 0
	for i := 0; i < trials; i++ {
		g := game.NewGame()
		for g.Active {
			var idx int
			if g.CurrentTurn == x {
				empties := g.Board.EmptyCells()
				idx = empties[rng.IntN(len(empties))]
			} else {
				var ok bool
				idx, ok = s.SelectMove(g.Board, game.Impossible, o)
				if !ok {
					t.Fatalf("no move on an active game: %v", g.Board)
				}
			}
			if _, err := g.Move(idx); err != nil {
				t.Fatalf("move %d rejected: %v", idx, err)
			}
		}
		if g.Outcome.Status == game.Won && g.Outcome.Winner == x {
			losses++
		}
	}
	if losses != 0 {
		t.Errorf("Impossible lost %d of %d games", losses, trials)
	}
}

// walk plays every possible opponent line against the deterministic Impossible bot.
func walk(t *testing.T, board game.Board, turn, botMark game.PlayerMark) (games int) {
	t.Helper()
	out := game.CheckOutcome(board)
	if out.IsOver() {
		if out.Status == game.Won && out.Winner != botMark {
			t.Fatalf("Impossible (%s) lost: %v", botMark, board)
		}
		return 1
	}

	if turn == botMark {
		idx, ok := SelectMove(board, game.Impossible, botMark)
		if !ok {
			t.Fatalf("no move on a live board: %v", board)
		}
		next, err := game.ApplyMove(board, idx, botMark)
		if err != nil {
			t.Fatalf("bot chose an illegal move %d: %v", idx, err)
		}
		return walk(t, next, turn.Opponent(), botMark)
	}

	for _, idx := range board.EmptyCells() {
		next, _ := game.ApplyMove(board, idx, turn)
		games += walk(t, next, turn.Opponent(), botMark)
	}
	return games
}

func TestImpossibleNeverLosesExhaustively(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive game tree walk")
	}
	t.Run("playing second", func(t *testing.T) {
		if games := walk(t, game.Board{}, x, o); games == 0 {
			t.Fatal("no games explored")
		}
	})
	t.Run("playing first", func(t *testing.T) {
		if games := walk(t, game.Board{}, x, x); games == 0 {
			t.Fatal("no games explored")
		}
	})
}
