package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

func TestChannelFromCommand(t *testing.T) {
	const def = multiplayer.ChannelID("lobby")

	tests := []struct {
		args []string
		want multiplayer.ChannelID
	}{
		{nil, def},
		{[]string{""}, def},
		{[]string{"#"}, def},
		{[]string{"games"}, "games"},
		{[]string{"#Games", "extra"}, "games"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ChannelFromCommand(tt.args, def), "%v", tt.args)
	}
}
