// ludo is a command-line front end for the Ludo rules engine.
//
// Usage:
//
//	ludo play                - Play a hot-seat game in the terminal
//	ludo simulate            - Run Monte Carlo self-play statistics
//	ludo version             - Show version
//
// Global flags:
//
//	--seed <value>  - Set dice RNG seed for reproducible games
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var flagSeed int64

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ludo",
	Short: "Ludo - four-player board game engine",
	Long: `ludo drives the Ludo rules engine from the terminal.

Available commands:
  play      - Hot-seat game for 2-4 players at one keyboard
  simulate  - Monte Carlo self-play statistics
  version   - Show version

Examples:
  ludo play
  ludo play --seed 42 --delay 150ms
  ludo simulate --games 5000
  ludo simulate --state <stateID> --games 1000`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ludo v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Dice RNG seed (0 = random based on time)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(versionCmd)
}
