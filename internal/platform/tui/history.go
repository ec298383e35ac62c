package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reversi-bot/internal/storage"
)

// History layout constants
const (
	maxHistoryRows = 100 // Max matches to load
	historyChrome  = 8   // header, tabs, help and margins
)

// HistorySource is the read side of the match store.
type HistorySource interface {
	RecentMatches(limit int) ([]storage.MatchRecord, error)
	PlayerMatches(player string, limit int) ([]storage.MatchRecord, error)
	PlayerRecord(player string) (*storage.PlayerRecord, error)
	Leaderboard(limit int) ([]storage.PlayerRecord, error)
}

// historyTab is one view of the history screen.
type historyTab int

const (
	tabRecent historyTab = iota
	tabPlayer
	tabLeaderboard
)

func (t historyTab) title(player string) string {
	switch t {
	case tabPlayer:
		return player
	case tabLeaderboard:
		return "Leaderboard"
	default:
		return "Recent"
	}
}

// HistoryModel is the Bubble Tea model for browsing finished matches.
type HistoryModel struct {
	source   HistorySource
	player   string
	tabs     []historyTab
	cursor   int
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	record   *storage.PlayerRecord
	empty    bool
	err      error
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a history screen. When player is set the
// screen opens on that player's matches.
func NewHistoryModel(source HistorySource, player string, width, height int) HistoryModel {
	tabs := []historyTab{tabRecent, tabLeaderboard}
	cursor := 0
	if player != "" {
		tabs = []historyTab{tabRecent, tabPlayer, tabLeaderboard}
		cursor = 1
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		source: source,
		player: player,
		tabs:   tabs,
		cursor: cursor,
		help:   h,
		keys:   DefaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// Current returns the title of the selected tab.
func (m HistoryModel) Current() string {
	return m.tabs[m.cursor].title(m.player)
}

// Rows returns the rows shown in the table.
func (m HistoryModel) Rows() []table.Row {
	return m.table.Rows()
}

// load (re)builds the table for the selected tab.
func (m *HistoryModel) load() {
	m.err = nil
	m.record = nil

	var columns []table.Column
	var rows []table.Row

	switch m.tabs[m.cursor] {
	case tabLeaderboard:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "W", Width: 4},
			{Title: "L", Width: 4},
			{Title: "D", Width: 4},
			{Title: "Discs", Width: 6},
		}
		board, err := m.source.Leaderboard(maxHistoryRows)
		m.err = err
		for i, r := range board {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				r.Player,
				fmt.Sprintf("%d", r.Wins),
				fmt.Sprintf("%d", r.Losses),
				fmt.Sprintf("%d", r.Draws),
				fmt.Sprintf("%d", r.Discs),
			})
		}

	default:
		columns = []table.Column{
			{Title: "Date", Width: 13},
			{Title: "Game", Width: 9},
			{Title: "Black", Width: 12},
			{Title: "White", Width: 12},
			{Title: "Score", Width: 7},
			{Title: "Result", Width: 14},
			{Title: "Ovr", Width: 4},
		}

		var matches []storage.MatchRecord
		var err error
		if m.tabs[m.cursor] == tabPlayer {
			matches, err = m.source.PlayerMatches(m.player, maxHistoryRows)
			if err == nil {
				m.record, err = m.source.PlayerRecord(m.player)
			}
		} else {
			matches, err = m.source.RecentMatches(maxHistoryRows)
		}
		m.err = err
		for _, r := range matches {
			rows = append(rows, table.Row{
				r.CreatedAt.Format("Jan 02 15:04"),
				r.Game,
				r.BlackPlayer,
				r.WhitePlayer,
				fmt.Sprintf("%d-%d", r.BlackCount, r.WhiteCount),
				resultLabel(r),
				fmt.Sprintf("%d", r.OverridesUsed),
			})
		}
	}

	m.empty = len(rows) == 0
	m.table = m.createTable(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// resultLabel summarises how a match ended.
func resultLabel(r storage.MatchRecord) string {
	switch {
	case r.EndReason != "completed":
		return r.EndReason
	case r.Draw():
		return "draw"
	default:
		return r.Winner + " won"
	}
}

// createTable creates a new table with the given columns.
func (m *HistoryModel) createTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-historyChrome)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.cursor = (m.cursor + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.tabs) - 1
			}
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("MATCH HISTORY", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(t.title(m.player))
		} else {
			tabs[i] = tabStyle.Render(" " + t.title(m.player) + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	if m.record != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s: %d won, %d lost, %d drawn, %d unfinished",
			m.record.Player, m.record.Wins, m.record.Losses, m.record.Draws, m.record.Aborted)))
	}
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.err != nil {
		return emptyStyle.Render(fmt.Sprintf("Could not load history:\n%v", m.err))
	}
	if m.empty {
		return emptyStyle.Render("No matches recorded yet.\nStart one with !osero.")
	}
	return m.table.View()
}

// centerText pads text so it appears centered within width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunHistory runs the history screen.
func RunHistory(source HistorySource, player string, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, player, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
