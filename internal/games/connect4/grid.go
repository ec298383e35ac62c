// Package connect4 implements the Connect Four grid: seven columns, six
// rows, pieces dropped to the lowest free cell and four in a line to win.
package connect4

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Columns = 7
	Rows    = 6
	ToWin   = 4
)

var (
	// ErrBadColumn is returned for text that is not a column letter A-G.
	ErrBadColumn = errors.New("connect4: not a column")
	// ErrColumnFull is returned when a column has no free cell left.
	ErrColumnFull = errors.New("connect4: column is full")
)

// Piece is the content of one grid cell.
type Piece uint8

const (
	Empty Piece = iota
	Red
	Blue
)

// String returns a human-readable colour name.
func (p Piece) String() string {
	switch p {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "empty"
	}
}

// Symbol returns the glyph used in text renderings.
func (p Piece) Symbol() string {
	switch p {
	case Red, Blue:
		return "●"
	default:
		return "·"
	}
}

// PieceOf returns the piece of seat 0 (red) or seat 1 (blue).
func PieceOf(seat int) Piece {
	if seat == 0 {
		return Red
	}
	return Blue
}

// Grid is the playing field. Row 0 is the top row.
type Grid struct {
	cells  [Rows][Columns]Piece
	filled int
}

// At returns the piece at col, row. Off-grid cells read as Empty.
func (g *Grid) At(col, row int) Piece {
	if col < 0 || col >= Columns || row < 0 || row >= Rows {
		return Empty
	}
	return g.cells[row][col]
}

// Cells returns a copy of the grid, top row first.
func (g *Grid) Cells() [Rows][Columns]Piece {
	return g.cells
}

// Open reports whether col still takes a piece.
func (g *Grid) Open(col int) bool {
	return col >= 0 && col < Columns && g.cells[0][col] == Empty
}

// Count returns how many pieces of p are on the grid.
func (g *Grid) Count(p Piece) int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == p {
				n++
			}
		}
	}
	return n
}

// Full reports whether every cell is taken.
func (g *Grid) Full() bool {
	return g.filled == Rows*Columns
}

// Drop lets p fall into col and returns the row it lands on.
func (g *Grid) Drop(col int, p Piece) (int, error) {
	if col < 0 || col >= Columns {
		return 0, fmt.Errorf("%w: %d", ErrBadColumn, col)
	}
	for row := Rows - 1; row >= 0; row-- {
		if g.cells[row][col] == Empty {
			g.cells[row][col] = p
			g.filled++
			return row, nil
		}
	}
	return 0, ErrColumnFull
}

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Connects reports whether the piece at col, row completes a line of ToWin.
func (g *Grid) Connects(col, row int) bool {
	p := g.At(col, row)
	if p == Empty {
		return false
	}
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{-1, 1} {
			for i := 1; i < ToWin; i++ {
				if g.At(col+d[0]*i*sign, row+d[1]*i*sign) != p {
					break
				}
				count++
			}
		}
		if count >= ToWin {
			return true
		}
	}
	return false
}

// ColumnLabel returns the letter of col.
func ColumnLabel(col int) string {
	return string(rune('A' + col))
}

// ParseColumn accepts a single column letter, case-insensitive.
func ParseColumn(text string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if len(s) != 1 || s[0] < 'A' || s[0] >= 'A'+Columns {
		return 0, ErrBadColumn
	}
	return int(s[0] - 'A'), nil
}
