package reversi

// directions are the eight step vectors used by the flood-fill.
var directions = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Move describes a successfully applied placement.
type Move struct {
	At       Coord
	Color    Disc
	Flipped  []Coord
	Override bool // destination held the opposing colour before the move
}

// Flips returns every opposing disc that placing color at c would capture.
// The destination's own content is not inspected.
func (b *Board) Flips(c Coord, color Disc) []Coord {
	other := color.Opponent()
	if other == Empty {
		return nil
	}

	var flipped []Coord
	for _, d := range directions {
		var run []Coord
		p := c.add(d)
		for p.Valid() && b.At(p) == other {
			run = append(run, p)
			p = p.add(d)
		}
		if len(run) > 0 && p.Valid() && b.At(p) == color {
			flipped = append(flipped, run...)
		}
	}
	return flipped
}

// LegalMoves returns the empty cells where color captures at least one disc,
// in row-major order.
func (b *Board) LegalMoves(color Disc) []Coord {
	var moves []Coord
	for c := range Coords() {
		if b.At(c) != Empty {
			continue
		}
		if len(b.Flips(c, color)) > 0 {
			moves = append(moves, c)
		}
	}
	return moves
}

// HasLegalMove reports whether LegalMoves(color) is non-empty.
func (b *Board) HasLegalMove(color Disc) bool {
	for c := range Coords() {
		if b.At(c) == Empty && len(b.Flips(c, color)) > 0 {
			return true
		}
	}
	return false
}

// Apply places color at c. When capturing runs exist they are all flipped.
// Otherwise a destination holding the opposing colour is overwritten in place
// and nothing else changes. Own-colour destinations, and empty destinations
// without captures, are rejected and leave the board untouched.
func (b *Board) Apply(c Coord, color Disc) (Move, bool) {
	if !c.Valid() || color == Empty {
		return Move{}, false
	}

	dest := b.At(c)
	if dest == color {
		return Move{}, false
	}

	flipped := b.Flips(c, color)
	if len(flipped) == 0 && dest != color.Opponent() {
		return Move{}, false
	}

	b.SetCell(c.X, c.Y, color)
	for _, f := range flipped {
		b.SetCell(f.X, f.Y, color)
	}
	return Move{
		At:       c,
		Color:    color,
		Flipped:  flipped,
		Override: dest == color.Opponent(),
	}, true
}
