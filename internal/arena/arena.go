package arena

import (
	"context"
	"fmt"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("arena")

// Pairing is one match-up: X always moves first.
type Pairing struct {
	X game.Difficulty
	O game.Difficulty
}

func (p Pairing) String() string {
	return fmt.Sprintf("%s vs %s", p.X, p.O)
}

// Result tallies the games of a pairing.
type Result struct {
	Pairing
	XWins int
	OWins int
	Draws int
}

// Games is the number of games played.
func (r Result) Games() int {
	return r.XWins + r.OWins + r.Draws
}

// ImpossibleLosses counts games an Impossible side lost. It is zero for a correct engine.
func (r Result) ImpossibleLosses() int {
	losses := 0
	if r.X == game.Impossible {
		losses += r.OWins
	}
	if r.O == game.Impossible {
		losses += r.XWins
	}
	return losses
}

// AllPairings returns every ordered pair of difficulty tiers.
func AllPairings() []Pairing {
	pairings := make([]Pairing, 0, len(game.Difficulties)*len(game.Difficulties))
	for _, x := range game.Difficulties {
		for _, o := range game.Difficulties {
			pairings = append(pairings, Pairing{X: x, O: o})
		}
	}
	return pairings
}

// Arena plays AI-vs-AI games.
type Arena struct {
	calculator *bot.BotMoveCalculator
}

// New creates an Arena. A nil calculator uses the default selector.
func New(calculator *bot.BotMoveCalculator) *Arena {
	if calculator == nil {
		calculator = bot.NewBotMoveCalculator(nil)
	}
	return &Arena{calculator: calculator}
}

// PlayGame plays a single game to the end.
func (a *Arena) PlayGame(ctx context.Context, p Pairing) (game.Outcome, error) {
	g := game.NewGame()
	for g.Active {
		difficulty := p.X
		if g.CurrentTurn == game.PlayerO {
			difficulty = p.O
		}
		index := a.calculator.CalculateNextMove(ctx, g.Board, g.CurrentTurn, difficulty)
		if _, err := g.Move(index); err != nil {
			return game.Outcome{}, fmt.Errorf("%s played %d: %w", difficulty, index, err)
		}
	}
	return g.Outcome, nil
}

// Play runs games of one pairing, stopping early when ctx is done.
func (a *Arena) Play(ctx context.Context, p Pairing, games int) (Result, error) {
	ctx, span := tracer.Start(ctx, "arena.Play", trace.WithAttributes(
		attribute.String("arena.x", string(p.X)),
		attribute.String("arena.o", string(p.O)),
		attribute.Int("arena.games", games),
	))
	defer span.End()

	result := Result{Pairing: p}
	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome, err := a.PlayGame(ctx, p)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		switch {
		case outcome.Status == game.Draw:
			result.Draws++
		case outcome.Winner == game.PlayerX:
			result.XWins++
		default:
			result.OWins++
		}
	}
	return result, nil
}

// Tournament plays every pairing in order.
func (a *Arena) Tournament(ctx context.Context, pairings []Pairing, games int) ([]Result, error) {
	results := make([]Result, 0, len(pairings))
	for _, p := range pairings {
		r, err := a.Play(ctx, p, games)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
