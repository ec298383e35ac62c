package reversi

import (
	"iter"
	"strings"
)

// Board is the 6x6 grid indexed [y][x]. It is a value type; assignment copies it.
type Board [Size][Size]Disc

// NewBoard returns the starting position with the 2x2 centre filled.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = White, White
	b[mid-1][mid], b[mid][mid-1] = Black, Black
	return b
}

// IsOnBoard reports whether (x, y) is inside the grid.
func IsOnBoard(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// CellAt returns the disc at (x, y). Callers bounds-check.
func (b *Board) CellAt(x, y int) Disc {
	return b[y][x]
}

// SetCell writes a disc at (x, y). Callers bounds-check.
func (b *Board) SetCell(x, y int, d Disc) {
	b[y][x] = d
}

// At returns the disc at c.
func (b *Board) At(c Coord) Disc {
	return b[c.Y][c.X]
}

// Clone returns an independent copy.
func (b *Board) Clone() Board {
	return *b
}

// Coords yields every position in row-major order.
func Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for y := range Size {
			for x := range Size {
				if !yield(Coord{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// Count returns the number of cells holding d.
func (b *Board) Count(d Disc) int {
	n := 0
	for c := range Coords() {
		if b.At(c) == d {
			n++
		}
	}
	return n
}

// Tally returns the black and white disc counts.
func (b *Board) Tally() (black, white int) {
	return b.Count(Black), b.Count(White)
}

// String renders the board as text with column letters and row numbers.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for x := range Size {
		sb.WriteByte(' ')
		sb.WriteByte(byte('A' + x))
	}
	sb.WriteByte('\n')
	for y := range Size {
		sb.WriteByte(byte('1' + y))
		sb.WriteByte(' ')
		for x := range Size {
			sb.WriteByte(' ')
			sb.WriteString(b[y][x].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
