// Package reversi implements the 6x6 Othello-style board: legal-move
// computation, move application with flipping, the legacy override
// placement and the automated opponent's decision policy.
package reversi

// Size is the board edge length.
const Size = 6

// Disc is the content of a single board cell.
type Disc uint8

const (
	Empty Disc = iota
	Black
	White
)

// Opponent returns the opposing colour. Empty has no opponent.
func (d Disc) Opponent() Disc {
	switch d {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// String returns a human-readable colour name.
func (d Disc) String() string {
	switch d {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Symbol returns the single-character glyph used in text renderings.
func (d Disc) Symbol() string {
	switch d {
	case Black:
		return "●"
	case White:
		return "○"
	default:
		return "·"
	}
}
