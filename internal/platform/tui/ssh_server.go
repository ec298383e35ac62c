// Package tui provides the terminal host for reversi games: a chat screen
// per channel, a match history browser and SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

// subscriberBuffer is how many notifications a slow terminal may fall behind.
const subscriberBuffer = 64

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.reversi/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// DefaultChannel is joined when the ssh command names none.
	DefaultChannel multiplayer.ChannelID
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:        ":23235",
		IdleTimeout:    30 * time.Minute,
		DefaultChannel: "lobby",
	}
}

// SSHServer wraps a Wish SSH server. Every connection joins one channel
// and plays as its SSH user name.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	coord  Sender
	fanout *multiplayer.Fanout
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, coord Sender, fanout *multiplayer.Fanout, logger *log.Logger) (*SSHServer, error) {
	if cfg.DefaultChannel == "" {
		cfg.DefaultChannel = DefaultSSHServerConfig().DefaultChannel
	}

	srv := &SSHServer{
		config: cfg,
		coord:  coord,
		fanout: fanout,
		logger: logger.WithPrefix("ssh"),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".reversi", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// ChannelFromCommand picks the channel named by the ssh command line,
// e.g. `ssh -p 23235 host games`, falling back to def.
func ChannelFromCommand(args []string, def multiplayer.ChannelID) multiplayer.ChannelID {
	if len(args) == 0 {
		return def
	}
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(args[0]), "#"))
	if name == "" {
		return def
	}
	return multiplayer.ChannelID(name)
}

// teaHandler creates a chat program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	channel := ChannelFromCommand(sshSession.Command(), s.config.DefaultChannel)
	user := multiplayer.PlayerID(sshSession.User())
	subID := multiplayer.SubscriberID(fmt.Sprintf("%s-%d", user, time.Now().UnixNano()))

	sub := multiplayer.NewChannelSubscriber(subID, subscriberBuffer)
	s.fanout.Register(channel, sub)
	go func() {
		<-sshSession.Context().Done()
		s.fanout.Unregister(channel, subID)
		sub.Close()
	}()

	s.logger.Debug("joined channel", "user", user, "channel", channel, "watchers", s.fanout.Count(channel))

	model := NewChatModel(ChatOptions{
		Channel: channel,
		User:    user,
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
	}, s.coord, sub)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or
// the process is interrupted.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
