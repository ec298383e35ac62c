package core

// PlayerID identifies a participant as seen by the chat host (a user name or handle).
type PlayerID string

// ChannelID identifies a conversation space; at most one game runs per channel.
type ChannelID string

// String implements fmt.Stringer.
func (p PlayerID) String() string { return string(p) }

// String implements fmt.Stringer.
func (c ChannelID) String() string { return string(c) }
