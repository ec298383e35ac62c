package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

// Chat layout constants
const (
	sidePanelWidth = 28  // board column
	maxChatLines   = 500 // scrollback kept in memory
	minChatWidth   = 20
	minChatHeight  = 5
)

// Sender delivers host messages to the coordinator.
type Sender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// Feed is the notification queue a chat screen reads from.
type Feed interface {
	Next() (multiplayer.Notification, bool)
	Ready() <-chan struct{}
	Done() <-chan struct{}
}

// notificationMsg carries a coordinator notification into the Bubble Tea loop.
type notificationMsg struct {
	n multiplayer.Notification
}

// subscriptionClosedMsg is delivered once the subscriber has been closed.
type subscriptionClosedMsg struct{}

// ChatOptions configures a chat screen.
type ChatOptions struct {
	Channel multiplayer.ChannelID
	User    multiplayer.PlayerID
	HotSeat bool // allow /as to switch identity and show every private reply
	Width   int
	Height  int
}

// ChatModel is one participant's view of a channel: the current board,
// the status lines published to the channel and an input line.
type ChatModel struct {
	opts  ChatOptions
	user  multiplayer.PlayerID
	coord Sender
	feed  Feed

	input textinput.Model
	view  viewport.Model
	help  help.Model
	keys  ChatKeyMap

	lines    []string
	board    *multiplayer.BoardEvent
	grid     *multiplayer.GridEvent
	width    int
	height   int
	quitting bool
}

// NewChatModel creates a chat screen that reads notifications from feed.
func NewChatModel(opts ChatOptions, coord Sender, feed Feed) ChatModel {
	in := textinput.New()
	in.Placeholder = "D3, @bot, !osero, !c4, /games, /help"
	in.CharLimit = 120
	in.Prompt = promptFor(opts.User)
	in.Focus()

	m := ChatModel{
		opts:  opts,
		user:  opts.User,
		coord: coord,
		feed:  feed,
		input: in,
		view:  viewport.New(minChatWidth, minChatHeight),
		help:  help.New(),
		keys:  DefaultChatKeyMap(),
	}
	m.resize(opts.Width, opts.Height)
	m.appendLine(dimStyle.Render(fmt.Sprintf("Joined #%s. Type /help for commands.", opts.Channel)))
	return m
}

func promptFor(user multiplayer.PlayerID) string {
	return fmt.Sprintf("%s> ", user)
}

// Init starts the cursor and the notification reader.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent returns a command that waits for the next notification.
func (m ChatModel) waitForEvent() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		for {
			if n, ok := feed.Next(); ok {
				return notificationMsg{n: n}
			}
			select {
			case <-feed.Ready():
			case <-feed.Done():
				return subscriptionClosedMsg{}
			}
		}
	}
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			return m.submit()
		case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDn):
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case notificationMsg:
		m.receive(msg.n)
		return m, m.waitForEvent()

	case subscriptionClosedMsg:
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.view.Width = max(minChatWidth, width-sidePanelWidth-2)
	m.view.Height = max(minChatHeight, height-6)
	m.input.Width = max(minChatWidth, width-len(m.input.Prompt)-2)
	m.help.Width = width
}

// submit handles the input line.
func (m ChatModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	cmd := ParseCommand(line)
	switch cmd.Kind {
	case CommandNone:
		return m, nil

	case CommandQuit:
		m.quitting = true
		return m, tea.Quit

	case CommandHelp:
		for _, h := range helpLines {
			m.appendLine(dimStyle.Render(h))
		}
		return m, nil

	case CommandGames:
		for _, g := range gameLines() {
			m.appendLine(dimStyle.Render(g))
		}
		return m, nil

	case CommandAs:
		switch {
		case !m.opts.HotSeat:
			m.appendLine(textStyles[multiplayer.TextRejected].Render("Switching identity is only available in local play."))
		case cmd.Arg == "":
			m.appendLine(dimStyle.Render("Usage: /as name"))
		default:
			m.user = multiplayer.PlayerID(cmd.Arg)
			m.input.Prompt = promptFor(m.user)
			m.appendLine(dimStyle.Render(fmt.Sprintf("You are now %s.", m.user)))
		}
		return m, nil
	}

	m.appendLine(dimStyle.Render(fmt.Sprintf("<%s> %s", m.user, line)))
	if msg := cmd.Message(m.opts.Channel, m.user); msg != nil {
		m.coord.Send(msg)
	}
	return m, nil
}

// receive applies a notification to the screen.
func (m *ChatModel) receive(n multiplayer.Notification) {
	switch e := n.(type) {
	case multiplayer.BoardEvent:
		m.board, m.grid = &e, nil
		return

	case multiplayer.GridEvent:
		m.board, m.grid = nil, &e
		return

	case multiplayer.TerminatedEvent:
		m.board, m.grid = nil, nil

	case multiplayer.TextEvent:
		if e.To != "" && e.To != m.user {
			if !m.opts.HotSeat {
				return
			}
			m.appendLine(fmt.Sprintf("(to %s) %s", e.To, RenderNotification(e)))
			return
		}
	}

	if line := RenderNotification(n); line != "" {
		m.appendLine(line)
	}
}

func (m *ChatModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxChatLines {
		m.lines = m.lines[len(m.lines)-maxChatLines:]
	}
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}

// View renders the chat screen.
func (m ChatModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	header := titleStyle.Render("#"+string(m.opts.Channel)) + dimStyle.Render(" as "+string(m.user))

	side := dimStyle.Render("No board in play.\nType !osero or !c4 to\nstart one, /games\nfor the rest.")
	switch {
	case m.board != nil:
		side = RenderBoard(*m.board)
	case m.grid != nil:
		side = RenderGrid(*m.grid)
	}
	side = lipgloss.NewStyle().Width(sidePanelWidth).Render(side)

	body := lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", m.view.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		m.input.View(),
		dimStyle.Render(m.help.View(m.keys)),
	)
}

// User returns the identity messages are sent as.
func (m ChatModel) User() multiplayer.PlayerID {
	return m.user
}

// Lines returns the rendered chat lines.
func (m ChatModel) Lines() []string {
	return m.lines
}

// IsQuitting returns true if user wants to leave.
func (m ChatModel) IsQuitting() bool {
	return m.quitting
}

// RunChat runs a chat screen in the current terminal until the user quits.
func RunChat(opts ChatOptions, coord Sender, feed Feed) error {
	p := tea.NewProgram(
		NewChatModel(opts, coord, feed),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
