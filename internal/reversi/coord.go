package reversi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedCoord is returned for text that is not a letter followed by one or two digits.
	ErrMalformedCoord = errors.New("reversi: malformed coordinate")
	// ErrOutOfRange is returned for a well-formed coordinate outside the board.
	ErrOutOfRange = errors.New("reversi: coordinate out of range")
)

// Coord is a zero-based board position. X is the column, Y the row.
type Coord struct {
	X, Y int
}

// String renders the coordinate in player notation, e.g. "D3".
func (c Coord) String() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.X), c.Y+1)
}

// Valid reports whether the coordinate lies on the board.
func (c Coord) Valid() bool {
	return IsOnBoard(c.X, c.Y)
}

func (c Coord) add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// ParseCoord parses player notation: one column letter followed by a 1-based row.
// Input is case-insensitive and surrounding whitespace is ignored.
func ParseCoord(text string) (Coord, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if len(s) < 2 || len(s) > 3 {
		return Coord{}, ErrMalformedCoord
	}

	letter := s[0]
	if letter < 'A' || letter > 'Z' {
		return Coord{}, ErrMalformedCoord
	}
	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Coord{}, ErrMalformedCoord
		}
	}

	row, err := strconv.Atoi(digits)
	if err != nil {
		return Coord{}, ErrMalformedCoord
	}

	c := Coord{X: int(letter - 'A'), Y: row - 1}
	if !c.Valid() {
		return Coord{}, fmt.Errorf("%w: %s", ErrOutOfRange, s)
	}
	return c, nil
}
