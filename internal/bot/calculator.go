package bot

import (
	"context"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/game"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")
)

// BotMoveCalculator implements the room.MoveCalculator interface.
type BotMoveCalculator struct {
	selector *Selector
	duration metric.Float64Histogram
}

// NewBotMoveCalculator wraps a Selector with tracing and a move-duration histogram.
// A nil selector uses the package default.
func NewBotMoveCalculator(selector *Selector) *BotMoveCalculator {
	if selector == nil {
		selector = defaultSelector
	}
	duration, err := meter.Float64Histogram(
		"bot.move.duration",
		metric.WithDescription("Time spent selecting an AI move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		slog.Warn("failed to create bot.move.duration histogram", "error", err)
	}
	return &BotMoveCalculator{selector: selector, duration: duration}
}

// CalculateNextMove selects a move for mark and returns NoMove when no move can be chosen.
func (c *BotMoveCalculator) CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty game.Difficulty) int {
	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.String("bot.difficulty", string(difficulty)),
	))
	defer span.End()

	start := time.Now()
	index, ok := c.selector.SelectMove(board, difficulty, mark)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if c.duration != nil {
		c.duration.Record(ctx, elapsed, metric.WithAttributes(attribute.String("bot.difficulty", string(difficulty))))
	}
	span.SetAttributes(attribute.Int("move.index", index), attribute.Bool("move.found", ok))
	return index
}
