package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/platform/httpapi"
	"github.com/vovakirdan/reversi-bot/internal/platform/tui"
	"github.com/vovakirdan/reversi-bot/internal/telemetry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reversi SSH server",
	Long: `Start an SSH server where every connection joins a channel chat.
Each channel hosts at most one game at a time.

The channel is taken from the ssh command line and defaults to the
configured lobby:
  ssh -p 23235 localhost          # joins #lobby
  ssh -p 23235 localhost games    # joins #games

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.reversi/host_key

With --http the server also exposes /healthz, /metrics and a read-only
match history API.

Examples:
  reversi serve
  reversi serve --ssh :2222
  reversi serve --http :9100 --db ./reversi.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Status API address (disabled if empty)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Server.Address = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flags.Changed("http") {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}

	logger := newLogger(cfg, os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.New(reg)

	h := newHost(cfg, metrics, logger)
	defer h.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.HTTPAddr != "" {
		var source httpapi.MatchSource
		if h.store != nil {
			source = h.store
		}
		router := httpapi.NewRouter(httpapi.NewHandler(source), reg, logger.WithPrefix("http"))
		api := httpapi.NewServer(cfg.Server.HTTPAddr, router, logger.WithPrefix("http"))
		api.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = api.Shutdown(shutdownCtx)
		}()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:        cfg.Server.Address,
		HostKeyPath:    cfg.Server.HostKeyPath,
		IdleTimeout:    cfg.Server.IdleTimeout,
		DefaultChannel: multiplayer.ChannelID(cfg.Server.DefaultChannel),
	}, h.coord, h.fanout, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Reversi SSH server on %s, default channel #%s\n", cfg.Server.Address, cfg.Server.DefaultChannel)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
