package main

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reversi-bot/internal/config"
	"github.com/vovakirdan/reversi-bot/internal/core"
	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/storage"
)

// host bundles the pieces every game-hosting command needs.
type host struct {
	fanout *multiplayer.Fanout
	coord  *multiplayer.Coordinator
	store  *storage.Store // nil when the database could not be opened
}

// newHost wires the coordinator to a fanout and, when possible, the match
// database. A database failure only disables history.
func newHost(cfg *config.Config, stats multiplayer.StatsRecorder, logger *log.Logger) *host {
	fanout := multiplayer.NewFanout()
	rng := core.RuntimeConfig{Seed: flagSeed}.Rand()
	coord := multiplayer.NewCoordinator(cfg.CoordinatorConfig(), multiplayer.NewMemoryStore(), fanout, rng, logger)

	h := &host{fanout: fanout, coord: coord}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("match history disabled", "err", err)
	} else {
		h.store = store
		coord.SetResultSaver(store)
	}

	coord.SetStats(stats)
	coord.Start()
	return h
}

// Close stops the coordinator, flushing pending saves, then closes the store.
func (h *host) Close() {
	h.coord.Stop()
	if h.store != nil {
		_ = h.store.Close()
	}
}
