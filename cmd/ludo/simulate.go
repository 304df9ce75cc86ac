package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/ludoengine/internal/stateid"
	"github.com/yourusername/ludoengine/pkg/engine"
)

var (
	flagGames    int
	flagWorkers  int
	flagMaxTurns int
	flagState    string
	flagQuiet    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run Monte Carlo self-play statistics",
	Long: `Plays many games with uniformly random legal choices and reports
per-color win rates, game lengths and capture counts. Useful for
checking board fairness and the practical length of a game.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulate()
	},
}

func init() {
	simulateCmd.Flags().IntVar(&flagGames, "games", 1000, "Number of games to play")
	simulateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel workers (0 = all cores)")
	simulateCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 0, "Per-game turn cap (0 = default)")
	simulateCmd.Flags().StringVar(&flagState, "state", "", "State ID to start from (default: opening position)")
	simulateCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Suppress progress output")
}

func runSimulate() error {
	var g *engine.Game
	if flagState != "" {
		snap, err := stateid.Decode(flagState)
		if err != nil {
			return err
		}
		g = engine.NewGameFromSnapshot(snap, engine.GameOptions{})
	} else {
		g = engine.NewGame(engine.GameOptions{})
	}

	opts := engine.DefaultSimulationOptions()
	opts.Games = flagGames
	opts.Seed = flagSeed
	opts.Workers = flagWorkers
	if flagMaxTurns > 0 {
		opts.MaxTurns = flagMaxTurns
	}

	progress := func(p engine.SimulationProgress) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r%d/%d games (%.0f%%)", p.GamesCompleted, p.GamesTotal, p.Percent)
		}
	}

	res, err := engine.SimulateWithProgress(g, opts, progress)
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}

	fmt.Printf("games:            %d\n", res.Games)
	if res.Unfinished > 0 {
		fmt.Printf("unfinished:       %d (hit the turn cap)\n", res.Unfinished)
	}
	for c := 0; c < engine.NumColors; c++ {
		color := engine.Color(c)
		fmt.Printf("%-8s wins:    %6d  (%.1f%%)\n", color, res.Wins[c], res.WinRate[c]*100)
	}
	fmt.Printf("mean turns:       %.1f (stddev %.1f, stderr %.2f)\n",
		res.MeanTurns, res.TurnsStdDev, res.TurnsStdErr)
	fmt.Printf("captures:         %d (%.2f per game)\n", res.Captures, res.CapturesPerGame)
	return nil
}
