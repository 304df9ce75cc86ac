// Package engine implements the rules engine for four-player Ludo:
// token placement, dice-driven movement, capture, safe squares and win
// detection. The package is a pure state machine; rendering, input and
// animation belong to the caller.
package engine

import "fmt"

// Board geometry. The shared track is a 52-square ring in a single
// coordinate space; each color turns off the ring at its home-entry
// square into a private 6-square home lane.
const (
	TrackSize      = 52 // shared circular track squares
	HomeLaneSize   = 6  // private home lane squares, last one is Finished
	TokensPerColor = 4
	NumColors      = 4
)

// Color identifies a player. The declared order is the turn order.
type Color uint8

const (
	Red Color = iota
	Blue
	Green
	Yellow

	// NoColor is the zero winner / unset sentinel.
	NoColor Color = 0xFF
)

var colorNames = [NumColors]string{"red", "blue", "green", "yellow"}

func (c Color) String() string {
	if int(c) < NumColors {
		return colorNames[c]
	}
	return "none"
}

// Valid reports whether c is one of the four playing colors.
func (c Color) Valid() bool { return int(c) < NumColors }

// Next returns the color after c in turn order.
func (c Color) Next() Color { return Color((int(c) + 1) % NumColors) }

// ParseColor converts a color name to a Color.
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if s == name {
			return Color(i), nil
		}
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

// Start squares are 13 apart (a quarter of the ring) and the home-entry
// square of each color sits two squares behind its start square, so a
// token completes almost a full lap before turning home.
var (
	startIndex     = [NumColors]int{Red: 0, Blue: 13, Green: 26, Yellow: 39}
	homeEntryIndex = [NumColors]int{Red: 50, Blue: 11, Green: 24, Yellow: 37}
)

// Safe squares: the four start squares plus the square 8 ahead of each.
// Tokens on these squares cannot be captured.
var safeSquare = func() [TrackSize]bool {
	var s [TrackSize]bool
	for _, i := range []int{0, 8, 13, 21, 26, 34, 39, 47} {
		s[i] = true
	}
	return s
}()

// StartIndex returns the track square a token of color c enters from Base.
func StartIndex(c Color) int { return startIndex[c] }

// HomeEntryIndex returns the last shared-track square of color c before
// its home lane.
func HomeEntryIndex(c Color) int { return homeEntryIndex[c] }

// IsSafeSquare reports whether track index i is a safe square.
func IsSafeSquare(i int) bool { return i >= 0 && i < TrackSize && safeSquare[i] }

// SafeSquares returns the safe track indices in ascending order.
func SafeSquares() []int {
	out := make([]int, 0, 8)
	for i := 0; i < TrackSize; i++ {
		if safeSquare[i] {
			out = append(out, i)
		}
	}
	return out
}

// distanceToHomeEntry returns the forward distance from track index i to
// the home-entry square of color c, measured along the ring.
func distanceToHomeEntry(c Color, i int) int {
	return (homeEntryIndex[c] - i + TrackSize) % TrackSize
}

// PositionKind tags the variants of Position.
type PositionKind uint8

const (
	PosBase PositionKind = iota
	PosTrack
	PosHome
	PosFinished
)

// Position is where a token stands: in its base, on the shared track, on
// its color's home lane, or finished. Index is meaningful only for the
// track (0..51) and home (0..4) variants; a home index of 5 is stored as
// the Finished variant.
type Position struct {
	Kind  PositionKind
	Index int
}

// Base returns the not-yet-in-play position.
func Base() Position { return Position{Kind: PosBase} }

// TrackAt returns a position on the shared track.
func TrackAt(i int) Position { return Position{Kind: PosTrack, Index: i} }

// HomeAt returns a position on a home lane. Index HomeLaneSize-1 collapses
// to Finished.
func HomeAt(j int) Position {
	if j >= HomeLaneSize-1 {
		return Finished()
	}
	return Position{Kind: PosHome, Index: j}
}

// Finished returns the terminal position.
func Finished() Position { return Position{Kind: PosFinished} }

// OnTrack reports whether p is on the shared track.
func (p Position) OnTrack() bool { return p.Kind == PosTrack }

// InBase reports whether p is in the base.
func (p Position) InBase() bool { return p.Kind == PosBase }

// InHome reports whether p is on a home lane (not yet finished).
func (p Position) InHome() bool { return p.Kind == PosHome }

// IsFinished reports whether p is terminal.
func (p Position) IsFinished() bool { return p.Kind == PosFinished }

func (p Position) String() string {
	switch p.Kind {
	case PosBase:
		return "base"
	case PosTrack:
		return fmt.Sprintf("track(%d)", p.Index)
	case PosHome:
		return fmt.Sprintf("home(%d)", p.Index)
	case PosFinished:
		return "finished"
	}
	return "invalid"
}

// TokenID names a token by owner and slot. Slots are stable for the whole
// game; they are how callers refer to tokens in every operation.
type TokenID struct {
	Color Color `json:"color"`
	Slot  int   `json:"slot"`
}

func (id TokenID) String() string { return fmt.Sprintf("%s/%d", id.Color, id.Slot) }

// Token is one of the four pieces of a color.
type Token struct {
	ID  TokenID
	Pos Position
}

// Player is a color with its four tokens.
type Player struct {
	Color  Color
	Tokens [TokensPerColor]Token
}
