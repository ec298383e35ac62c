package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

// DifficultyPreset represents a named bot aggression level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// multiplierForPreset returns the factor applied to every override chance.
func multiplierForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// ScheduleForPreset scales the override schedule for a preset.
// Fixed disables escalation: every turn uses the first tier's chance.
func ScheduleForPreset(base reversi.Schedule, preset DifficultyPreset) reversi.Schedule {
	if len(base) == 0 {
		base = reversi.DefaultSchedule()
	}
	if preset == DifficultyFixed {
		return reversi.Schedule{{Through: 0, Probability: base[0].Probability}}
	}

	m := multiplierForPreset(preset)
	out := make(reversi.Schedule, len(base))
	for i, t := range base {
		out[i] = reversi.Tier{
			Through:     t.Through,
			Probability: clampF(t.Probability*m, 0.0, 1.0),
		}
	}
	return out
}

// clampF restricts a float64 value to the given range.
func clampF(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
