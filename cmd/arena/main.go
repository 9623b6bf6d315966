package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"neonttt/Tic-Tac-Toe/internal/arena"
	"neonttt/Tic-Tac-Toe/internal/bot"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrusorgru/aurora"
)

func main() {
	xFlag := flag.String("x", "", "difficulty playing X (empty plays every pairing)")
	oFlag := flag.String("o", "", "difficulty playing O")
	games := flag.Int("games", 100, "games per pairing")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one)")
	chartPath := flag.String("chart", "", "write an HTML bar chart to this file")
	flag.Parse()

	logger.Init(logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	pairings, err := pairingsFromFlags(*xFlag, *oFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
		os.Exit(2)
	}

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	selector := bot.NewSelector(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)))
	a := arena.New(bot.NewBotMoveCalculator(selector))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := a.Tournament(ctx, pairings, *games)
	printResults(results, *seed)
	if err != nil {
		slog.Error("Arena stopped early", "error", err)
		os.Exit(1)
	}

	if *chartPath != "" {
		if err := writeChart(*chartPath, results); err != nil {
			slog.Error("Failed to write chart", "chart.path", *chartPath, "error", err)
			os.Exit(1)
		}
		fmt.Println(aurora.Cyan(fmt.Sprintf("chart written to %s", *chartPath)))
	}

	for _, r := range results {
		if r.ImpossibleLosses() > 0 {
			os.Exit(1)
		}
	}
}

func pairingsFromFlags(x, o string) ([]arena.Pairing, error) {
	if x == "" && o == "" {
		return arena.AllPairings(), nil
	}
	xd, err := game.ParseDifficulty(x)
	if err != nil {
		return nil, fmt.Errorf("-x: %w", err)
	}
	od, err := game.ParseDifficulty(o)
	if err != nil {
		return nil, fmt.Errorf("-o: %w", err)
	}
	return []arena.Pairing{{X: xd, O: od}}, nil
}

func printResults(results []arena.Result, seed uint64) {
	fmt.Printf("seed %d\n", seed)
	fmt.Printf("%-26s %7s %7s %7s\n", "pairing", "X wins", "O wins", "draws")
	for _, r := range results {
		line := fmt.Sprintf("%-26s %7d %7d %7d", r.String(), r.XWins, r.OWins, r.Draws)
		switch {
		case r.ImpossibleLosses() > 0:
			fmt.Println(aurora.Red(line + "  impossible tier lost"))
		case r.Draws == r.Games():
			fmt.Println(aurora.Blue(line))
		default:
			fmt.Println(aurora.Green(line))
		}
	}
}

func writeChart(path string, results []arena.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := arena.RenderChart(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
