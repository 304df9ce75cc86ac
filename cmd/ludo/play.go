package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/ludoengine/pkg/engine"
)

var flagDelay time.Duration

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a hot-seat game in the terminal",
	Long: `Runs a four-player hot-seat game. Players share the keyboard:
on your turn press enter to roll, then pick which token to move.
Moves are shown square by square; a six grants another roll.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay()
	},
}

func init() {
	playCmd.Flags().DurationVar(&flagDelay, "delay", 120*time.Millisecond, "Delay between animation steps")
}

func runPlay() error {
	g := engine.NewGame(engine.GameOptions{Seed: flagSeed})
	in := bufio.NewScanner(os.Stdin)

	for {
		printBoard(g)

		player := g.CurrentPlayer()
		fmt.Printf("\n%s to roll (enter=roll, q=quit): ", player)
		if !in.Scan() || strings.TrimSpace(in.Text()) == "q" {
			return nil
		}

		dice, err := g.RollDice()
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s rolled a %d\n", player, dice)

		slots := g.LegalMoves(player, dice)
		if len(slots) == 0 {
			fmt.Printf("no legal move, %s passes\n", player)
			if err := g.PassTurn(player, dice); err != nil {
				return err
			}
			continue
		}

		slot := slots[0]
		if len(slots) > 1 {
			slot = chooseSlot(in, g, player, slots)
			if slot < 0 {
				return nil
			}
		}

		res, err := g.ApplyMove(player, slot, dice)
		if err != nil {
			fmt.Println(err)
			continue
		}

		animate(g, res)

		for _, cap := range res.Captured {
			fmt.Printf("  %s captured, back to base\n", cap)
		}
		if res.Bonus {
			fmt.Printf("  six! %s rolls again\n", player)
		}
		if res.Winner != engine.NoColor {
			printBoard(g)
			fmt.Printf("\n*** %s wins! ***\n", res.Winner)
			return nil
		}
	}
}

// chooseSlot prompts for one of the movable tokens.
func chooseSlot(in *bufio.Scanner, g *engine.Game, player engine.Color, slots []int) int {
	for {
		fmt.Printf("movable tokens:")
		for _, s := range slots {
			pos, _ := g.TokenPosition(player, s)
			fmt.Printf("  [%d] %s", s, pos)
		}
		fmt.Printf("\npick a token: ")
		if !in.Scan() {
			return -1
		}
		text := strings.TrimSpace(in.Text())
		if text == "q" {
			return -1
		}
		n, err := strconv.Atoi(text)
		if err == nil {
			for _, s := range slots {
				if s == n {
					return n
				}
			}
		}
		fmt.Println("not a movable token")
	}
}

// animate walks the move's step path. The busy guard stays up for the
// duration so nothing else can mutate the game mid-animation.
func animate(g *engine.Game, res *engine.MoveResult) {
	g.SetBusy(true)
	defer g.SetBusy(false)

	fmt.Printf("  %s: %s", res.Token, res.From)
	for _, step := range res.Path {
		time.Sleep(flagDelay)
		fmt.Printf(" -> %s", step)
	}
	fmt.Println()
}

// printBoard prints each player's token positions.
func printBoard(g *engine.Game) {
	fmt.Println()
	current := g.CurrentPlayer()
	for c := 0; c < engine.NumColors; c++ {
		color := engine.Color(c)
		marker := "  "
		if color == current {
			marker = "> "
		}
		fmt.Printf("%s%-7s", marker, color)
		for _, t := range g.Tokens(color) {
			fmt.Printf(" %-11s", t.Pos)
		}
		fmt.Println()
	}
}
