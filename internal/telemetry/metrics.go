// Package telemetry exposes gameplay counters to Prometheus.
package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

// Metrics implements multiplayer.StatsRecorder on Prometheus collectors.
type Metrics struct {
	GamesStarted  *prometheus.CounterVec
	GamesFinished *prometheus.CounterVec
	Moves         *prometheus.CounterVec
	Overrides     *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	Active        prometheus.Gauge
}

var _ multiplayer.StatsRecorder = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversi_games_started_total",
				Help: "Games that reached the playing stage",
			},
			[]string{"vs_bot"},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversi_games_finished_total",
				Help: "Discarded sessions by outcome",
			},
			[]string{"outcome"},
		),
		Moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversi_moves_total",
				Help: "Applied moves by kind",
			},
			[]string{"kind"},
		),
		Overrides: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversi_overrides_total",
				Help: "Override placements by actor",
			},
			[]string{"actor"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reversi_rejections_total",
				Help: "Inputs that were not applied, by reason",
			},
			[]string{"reason"},
		),
		Active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reversi_active_sessions",
				Help: "Live sessions across all channels",
			},
		),
	}

	reg.MustRegister(m.GamesStarted, m.GamesFinished, m.Moves, m.Overrides, m.Rejections, m.Active)
	return m
}

func (m *Metrics) GameStarted(vsBot bool) {
	m.GamesStarted.WithLabelValues(strconv.FormatBool(vsBot)).Inc()
}

func (m *Metrics) GameFinished(outcome string) {
	m.GamesFinished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MoveApplied(kind string) {
	m.Moves.WithLabelValues(kind).Inc()
}

func (m *Metrics) OverrideUsed(actor string) {
	m.Overrides.WithLabelValues(actor).Inc()
}

func (m *Metrics) Rejected(reason string) {
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.Active.Set(float64(n))
}
