package engine

import (
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// SimulationOptions controls Monte Carlo self-play.
type SimulationOptions struct {
	Games    int   // number of games to play (default 1000)
	Seed     int64 // RNG seed (0 = random)
	Workers  int   // parallel workers (0 = GOMAXPROCS)
	MaxTurns int   // per-game safety cap on dice resolutions (default 2000)
}

// DefaultSimulationOptions returns sensible defaults.
func DefaultSimulationOptions() SimulationOptions {
	return SimulationOptions{
		Games:    1000,
		Seed:     0,
		Workers:  0,
		MaxTurns: 2000,
	}
}

// SimulationProgress is passed to the progress callback as batches of
// games complete.
type SimulationProgress struct {
	GamesCompleted int
	GamesTotal     int
	Percent        float64
}

// ProgressFunc receives periodic simulation progress updates.
type ProgressFunc func(SimulationProgress)

// SimulationResult aggregates the outcomes of a batch of self-played
// games. Every game is played with a uniformly random choice among the
// legal tokens; the numbers measure the rules and the board, not any
// playing strength.
type SimulationResult struct {
	Games      int                // games that reached a winner
	Unfinished int                // games stopped by the MaxTurns cap
	Wins       [NumColors]int     // wins per color
	WinRate    [NumColors]float64 // Wins / Games

	// Game length in dice resolutions (rolls, whether moved or passed).
	MeanTurns   float64
	TurnsStdDev float64
	TurnsStdErr float64

	// Capture totals across all games.
	Captures        int
	CapturesPerGame float64
}

// simPartial carries one worker's results to the aggregator.
type simPartial struct {
	wins       [NumColors]int
	lengths    []float64
	captures   int
	unfinished int
}

// Simulate plays opts.Games random-policy games from the state of g,
// split across parallel workers. g itself is never mutated.
func Simulate(g *Game, opts SimulationOptions) (*SimulationResult, error) {
	return SimulateWithProgress(g, opts, nil)
}

// SimulateWithProgress is Simulate with a periodic progress callback.
func SimulateWithProgress(g *Game, opts SimulationOptions, progress ProgressFunc) (*SimulationResult, error) {
	if opts.Games <= 0 {
		opts.Games = 1000
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Workers > opts.Games {
		opts.Workers = opts.Games
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 2000
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	start := g.Snapshot()
	batch := opts.Games / 20
	if batch < 1 {
		batch = 1
	}

	gamesPerWorker := opts.Games / opts.Workers
	extra := opts.Games % opts.Workers

	results := make(chan simPartial, opts.Workers*4)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		games := gamesPerWorker
		if i < extra {
			games++
		}
		seed := opts.Seed + int64(i)*1000003

		wg.Add(1)
		go func(games int, seed int64) {
			defer wg.Done()
			simWorker(start, games, seed, opts.MaxTurns, batch, results)
		}(games, seed)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return aggregateSim(results, opts.Games, progress), nil
}

// simWorker plays its share of games, reporting in batches.
func simWorker(start Snapshot, games int, seed int64, maxTurns, batch int, results chan<- simPartial) {
	rng := rand.New(rand.NewSource(seed))

	for remaining := games; remaining > 0; {
		n := batch
		if n > remaining {
			n = remaining
		}

		pr := simPartial{}
		for i := 0; i < n; i++ {
			winner, turns, captures := playOut(start, rng, maxTurns)
			if winner == NoColor {
				pr.unfinished++
			} else {
				pr.wins[winner]++
			}
			pr.lengths = append(pr.lengths, float64(turns))
			pr.captures += captures
		}

		results <- pr
		remaining -= n
	}
}

// playOut plays a single game to completion with uniformly random legal
// choices. Returns the winner (NoColor if the cap was hit), the number
// of dice resolutions, and the number of captures.
func playOut(start Snapshot, rng *rand.Rand, maxTurns int) (Color, int, int) {
	g := NewGameFromSnapshot(start, GameOptions{Seed: rng.Int63()})
	captures := 0

	for turn := 0; turn < maxTurns; turn++ {
		if g.Over() {
			winner, _ := g.Winner()
			return winner, turn, captures
		}

		dice, ok := g.DiceRoll()
		if !ok {
			dice, _ = g.RollDice()
		}

		c := g.CurrentPlayer()
		slots := g.LegalMoves(c, dice)
		if len(slots) == 0 {
			g.PassTurn(c, dice)
			continue
		}

		res, err := g.ApplyMove(c, slots[rng.Intn(len(slots))], dice)
		if err != nil {
			// Cannot happen for a slot reported legal; bail out of this
			// game rather than loop forever.
			return NoColor, turn, captures
		}
		captures += len(res.Captured)
	}

	return NoColor, maxTurns, captures
}

// aggregateSim combines worker results and computes the statistics.
func aggregateSim(results <-chan simPartial, total int, progress ProgressFunc) *SimulationResult {
	res := &SimulationResult{}
	var lengths []float64
	completed := 0

	for pr := range results {
		for c := 0; c < NumColors; c++ {
			res.Wins[c] += pr.wins[c]
		}
		res.Captures += pr.captures
		res.Unfinished += pr.unfinished
		lengths = append(lengths, pr.lengths...)
		completed += len(pr.lengths)

		if progress != nil {
			progress(SimulationProgress{
				GamesCompleted: completed,
				GamesTotal:     total,
				Percent:        100 * float64(completed) / float64(total),
			})
		}
	}

	res.Games = completed - res.Unfinished
	if res.Games > 0 {
		for c := 0; c < NumColors; c++ {
			res.WinRate[c] = float64(res.Wins[c]) / float64(res.Games)
		}
	}
	if completed > 0 {
		res.CapturesPerGame = float64(res.Captures) / float64(completed)
		res.MeanTurns = stat.Mean(lengths, nil)
		if completed > 1 {
			res.TurnsStdDev = stat.StdDev(lengths, nil)
			res.TurnsStdErr = stat.StdErr(res.TurnsStdDev, float64(completed))
		}
	}

	return res
}
