// Package hitblow implements Hit and Blow, a colour-code guessing game.
// A guess scores a hit for every colour in the right position and a blow
// for every right colour in the wrong position.
package hitblow

import (
	"errors"
	"strings"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

// CodeLength is the number of pegs in the secret and in every guess.
const CodeLength = 4

// ErrBadGuess is returned for text that is not CodeLength palette letters.
var ErrBadGuess = errors.New("hitblow: guess must be four colour letters")

// Color is a peg colour, identified by its letter.
type Color byte

// Palette lists the six colours in display order.
var Palette = []Color{'r', 'y', 'g', 'b', 'p', 'w'}

var colorNames = map[Color]string{
	'r': "red", 'y': "yellow", 'g': "green", 'b': "blue", 'p': "purple", 'w': "white",
}

// Name returns the colour name.
func (c Color) Name() string { return colorNames[c] }

// Legend lists every colour letter with its name, e.g. "r=red y=yellow ...".
func Legend() string {
	parts := make([]string, 0, len(Palette))
	for _, c := range Palette {
		parts = append(parts, string(c)+"="+c.Name())
	}
	return strings.Join(parts, " ")
}

// Code is a secret or a guess.
type Code [CodeLength]Color

func (c Code) String() string {
	return string(c[:])
}

// ParseGuess accepts exactly CodeLength palette letters, case-insensitive.
func ParseGuess(text string) (Code, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	var code Code
	if len(s) != CodeLength {
		return code, ErrBadGuess
	}
	for i := range CodeLength {
		if _, ok := colorNames[Color(s[i])]; !ok {
			return code, ErrBadGuess
		}
		code[i] = Color(s[i])
	}
	return code, nil
}

// Mode selects whether a secret may repeat a colour.
type Mode int

const (
	ModeRandom     Mode = iota // decided per game
	ModeUnique                 // four different colours
	ModeDuplicates             // one colour may appear twice
)

func (m Mode) String() string {
	switch m {
	case ModeUnique:
		return "no repeats"
	case ModeDuplicates:
		return "repeats allowed"
	default:
		return "repeats at random"
	}
}

var modeNames = map[string]Mode{
	"": ModeRandom, "random": ModeRandom, "rand": ModeRandom,
	"unique": ModeUnique, "nodup": ModeUnique, "no": ModeUnique, "off": ModeUnique,
	"dup": ModeDuplicates, "duplicates": ModeDuplicates, "yes": ModeDuplicates, "on": ModeDuplicates,
}

// ParseMode reads a mode name such as "dup", "unique" or "random".
func ParseMode(text string) (Mode, bool) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(text))]
	return m, ok
}

// NewSecret draws a secret. With repeats allowed there is an even chance
// that exactly one colour appears twice.
func NewSecret(rng core.Rand, mode Mode) Code {
	if mode == ModeRandom {
		mode = ModeUnique
		if rng.Intn(2) == 0 {
			mode = ModeDuplicates
		}
	}

	pool := append([]Color(nil), Palette...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var code Code
	if mode == ModeDuplicates && rng.Intn(2) == 0 {
		code = Code{pool[0], pool[0], pool[1], pool[2]}
	} else {
		copy(code[:], pool[:CodeLength])
	}
	rng.Shuffle(CodeLength, func(i, j int) { code[i], code[j] = code[j], code[i] })
	return code
}

// Score is the feedback for one guess.
type Score struct {
	Hits  int
	Blows int
}

// Solved reports whether every peg is a hit.
func (s Score) Solved() bool { return s.Hits == CodeLength }

// Compare scores guess against secret.
func Compare(secret, guess Code) Score {
	var s Score
	counts := make(map[Color]int, CodeLength)
	for i := range CodeLength {
		if secret[i] == guess[i] {
			s.Hits++
		}
		counts[secret[i]]++
	}
	common := 0
	for _, c := range guess {
		if counts[c] > 0 {
			counts[c]--
			common++
		}
	}
	s.Blows = common - s.Hits
	return s
}
