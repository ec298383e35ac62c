package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reversi-bot/internal/games/connect4"
	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

// pieceStyles maps Connect Four cells to lipgloss styles.
var pieceStyles = map[connect4.Piece]lipgloss.Style{
	connect4.Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	connect4.Red:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	connect4.Blue:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
}

// discStyles maps board contents to lipgloss styles.
var discStyles = map[reversi.Disc]lipgloss.Style{
	reversi.Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	reversi.Black: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	reversi.White: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	lastStyle  = lipgloss.NewStyle().Background(lipgloss.Color("57"))
	scoreStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// textStyles maps status line kinds to lipgloss styles.
var textStyles = map[multiplayer.TextKind]lipgloss.Style{
	multiplayer.TextInfo:      lipgloss.NewStyle(),
	multiplayer.TextPrompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	multiplayer.TextRejected:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	multiplayer.TextSkip:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	multiplayer.TextOverride:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	multiplayer.TextBudget:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	multiplayer.TextSelection: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	multiplayer.TextGuess:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	multiplayer.TextHistory:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderBoard draws the position with legal-move hints for the side to move.
func RenderBoard(e multiplayer.BoardEvent) string {
	var sb strings.Builder

	sb.WriteString("  ")
	for x := range reversi.Size {
		sb.WriteString(axisStyle.Render(" " + string(rune('A'+x))))
	}
	sb.WriteByte('\n')

	for y := range reversi.Size {
		sb.WriteString(axisStyle.Render(fmt.Sprintf("%d ", y+1)))
		for x := range reversi.Size {
			c := reversi.Coord{X: x, Y: y}
			d := e.Board.At(c)

			glyph := discStyles[d].Render(d.Symbol())
			if d == reversi.Empty && slices.Contains(e.Legal, c) {
				glyph = hintStyle.Render("+")
			}
			if e.LastMove != nil && *e.LastMove == c {
				glyph = lastStyle.Render(glyph)
			}
			sb.WriteByte(' ')
			sb.WriteString(glyph)
		}
		if y < reversi.Size-1 {
			sb.WriteByte('\n')
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		boardStyle.Render(sb.String()),
		RenderScore(e),
	)
}

// RenderScore renders the disc counts and the player to move.
func RenderScore(e multiplayer.BoardEvent) string {
	lines := []string{
		scoreStyle.Render(fmt.Sprintf("%s %-12s %2d", reversi.Black.Symbol(), e.Black, e.BlackCount)),
		scoreStyle.Render(fmt.Sprintf("%s %-12s %2d", reversi.White.Symbol(), e.White, e.WhiteCount)),
	}
	if e.Turn != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("to move: %s", e.Turn)))
	}
	return strings.Join(lines, "\n")
}

// RenderGrid draws a Connect Four grid, marking the column of the last drop.
func RenderGrid(e multiplayer.GridEvent) string {
	var sb strings.Builder

	for col := range connect4.Columns {
		label := connect4.ColumnLabel(col)
		if col == e.Last {
			label = lastStyle.Render(label)
		}
		sb.WriteByte(' ')
		sb.WriteString(axisStyle.Render(label))
	}
	sb.WriteByte('\n')

	for row := range connect4.Rows {
		for col := range connect4.Columns {
			p := e.Cells[row][col]
			sb.WriteByte(' ')
			sb.WriteString(pieceStyles[p].Render(p.Symbol()))
		}
		if row < connect4.Rows-1 {
			sb.WriteByte('\n')
		}
	}

	lines := []string{
		boardStyle.Render(sb.String()),
		pieceStyles[connect4.Red].Render(connect4.Red.Symbol()) + scoreStyle.Render(" "+string(e.Red)),
		pieceStyles[connect4.Blue].Render(connect4.Blue.Symbol()) + scoreStyle.Render(" "+string(e.Blue)),
	}
	if e.Turn != "" {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("to drop: %s (%s)", e.Turn, e.Piece)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderNotification renders a non-board notification as chat lines.
func RenderNotification(n multiplayer.Notification) string {
	switch e := n.(type) {
	case multiplayer.TextEvent:
		style, ok := textStyles[e.Kind]
		if !ok {
			style = textStyles[multiplayer.TextInfo]
		}
		return style.Render(e.Text)

	case multiplayer.ResultEvent:
		if e.Game == multiplayer.GameConnect4 {
			if e.Draw {
				return scoreStyle.Render(fmt.Sprintf("%s vs %s: the grid is full. It's a draw!", e.Black, e.White))
			}
			return scoreStyle.Render(fmt.Sprintf("%s vs %s: %s connects four and wins!", e.Black, e.White, e.Winner))
		}
		tally := fmt.Sprintf("Final score: %s %s %d - %d %s %s.",
			reversi.Black.Symbol(), e.Black, e.BlackCount,
			e.WhiteCount, e.White, reversi.White.Symbol())
		if e.Draw {
			return scoreStyle.Render(tally + " It's a draw!")
		}
		return scoreStyle.Render(fmt.Sprintf("%s %s wins!", tally, e.Winner))

	case multiplayer.TerminatedEvent:
		if e.Text == "" {
			return dimStyle.Render("Game over.")
		}
		return dimStyle.Render(e.Text)

	case multiplayer.InternalErrorEvent:
		return textStyles[multiplayer.TextRejected].Render("Something went wrong. The game state was left unchanged.")
	}
	return ""
}
