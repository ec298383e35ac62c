// Package multiplayer runs the chat games: one session per channel, driven
// by inbound player messages and publishing notifications to the host.
// Reversi is the main game; Connect Four, Hit and Blow, the janken
// tournament and group janken run on the same coordinator.
package multiplayer

import "github.com/vovakirdan/reversi-bot/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
type PlayerID = core.PlayerID

// ChannelID is an alias to core.ChannelID for convenience.
type ChannelID = core.ChannelID

// SubscriberID identifies one connected host session (a terminal or SSH connection).
type SubscriberID string

// MatchID uniquely identifies a game session for persistence.
type MatchID string

// Stage is the session state machine position.
type Stage int

const (
	StageAwaitingOpponent Stage = iota
	StagePreliminary
	StagePlaying
	StageFinished
	StageEntry // taking entries for a group game
)

// String returns a human-readable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageAwaitingOpponent:
		return "awaiting opponent"
	case StagePreliminary:
		return "preliminary selection"
	case StagePlaying:
		return "playing"
	case StageFinished:
		return "finished"
	case StageEntry:
		return "taking entries"
	default:
		return "unknown"
	}
}

// EndReason describes why a session was discarded.
type EndReason int

const (
	EndReasonCompleted EndReason = iota // the game reached its natural end
	EndReasonAborted                    // a player ended the game
	EndReasonTimeout                    // opponent, entries or selection never arrived
)

func (r EndReason) String() string {
	switch r {
	case EndReasonCompleted:
		return "completed"
	case EndReasonAborted:
		return "aborted"
	case EndReasonTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}
