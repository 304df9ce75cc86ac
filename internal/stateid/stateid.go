// Package stateid implements a compact string encoding for Ludo game
// snapshots. A state ID names the position of all 16 tokens plus the
// turn and pending dice in 18 URL-safe characters, so API clients and
// tests can address a full game state with one string.
//
// Layout: one header byte (turn in the low 2 bits, pending dice in the
// next 3), then 16 six-bit token codes in color/slot order, packed most
// significant bit first. 104 bits = 13 bytes, base64url without padding.
package stateid

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// IDLength is the length of an encoded state ID string.
const IDLength = 18

const encodedBytes = 13

// ErrInvalidID is wrapped by all decode failures.
var ErrInvalidID = errors.New("invalid state ID")

// Token position codes.
const (
	codeBase     = 0  // in base
	codeTrack    = 1  // track i encodes as 1+i, 1..52
	codeHome     = 53 // home j encodes as 53+j, 53..57
	codeFinished = 58
)

// encodePosition converts a Position to its 6-bit code.
func encodePosition(p engine.Position) uint8 {
	switch p.Kind {
	case engine.PosTrack:
		return uint8(codeTrack + p.Index)
	case engine.PosHome:
		return uint8(codeHome + p.Index)
	case engine.PosFinished:
		return codeFinished
	}
	return codeBase
}

// decodePosition converts a 6-bit code back to a Position.
func decodePosition(code uint8) (engine.Position, error) {
	switch {
	case code == codeBase:
		return engine.Base(), nil
	case code >= codeTrack && code < codeTrack+engine.TrackSize:
		return engine.TrackAt(int(code - codeTrack)), nil
	case code >= codeHome && code < codeHome+engine.HomeLaneSize-1:
		return engine.Position{Kind: engine.PosHome, Index: int(code - codeHome)}, nil
	case code == codeFinished:
		return engine.Finished(), nil
	}
	return engine.Position{}, fmt.Errorf("%w: token code %d", ErrInvalidID, code)
}

// Encode packs a snapshot into a state ID.
func Encode(s engine.Snapshot) string {
	var buf [encodedBytes]uint8
	buf[0] = uint8(s.Current)&0x3 | uint8(s.Dice)<<2

	bit := 8
	put := func(code uint8) {
		for i := 5; i >= 0; i-- {
			if code&(1<<i) != 0 {
				buf[bit/8] |= 1 << (7 - bit%8)
			}
			bit++
		}
	}
	for c := 0; c < engine.NumColors; c++ {
		for slot := 0; slot < engine.TokensPerColor; slot++ {
			put(encodePosition(s.Positions[c][slot]))
		}
	}

	return base64.RawURLEncoding.EncodeToString(buf[:])
}

// Decode unpacks a state ID into a snapshot. The winner field is left
// unset; engine.NewGameFromSnapshot rederives it from the positions.
func Decode(id string) (engine.Snapshot, error) {
	var s engine.Snapshot
	s.Winner = engine.NoColor

	if len(id) != IDLength {
		return s, fmt.Errorf("%w: length %d, want %d", ErrInvalidID, len(id), IDLength)
	}
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(raw) != encodedBytes {
		return s, fmt.Errorf("%w: decodes to %d bytes", ErrInvalidID, len(raw))
	}

	current := raw[0] & 0x3
	dice := raw[0] >> 2 & 0x7
	if dice > engine.DiceMax {
		return s, fmt.Errorf("%w: dice %d", ErrInvalidID, dice)
	}
	s.Current = engine.Color(current)
	s.Dice = int(dice)

	bit := 8
	get := func() uint8 {
		var code uint8
		for i := 0; i < 6; i++ {
			code <<= 1
			if raw[bit/8]&(1<<(7-bit%8)) != 0 {
				code |= 1
			}
			bit++
		}
		return code
	}
	for c := 0; c < engine.NumColors; c++ {
		for slot := 0; slot < engine.TokensPerColor; slot++ {
			pos, err := decodePosition(get())
			if err != nil {
				return s, err
			}
			s.Positions[c][slot] = pos
		}
	}

	return s, nil
}
