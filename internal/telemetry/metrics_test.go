package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// sample returns the value of the series name{labels} gathered from reg.
func sample(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			match := len(m.GetLabel()) == len(labels)
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					match = false
				}
			}
			if !match {
				continue
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("series %s%v not found", name, labels)
	return 0
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.GameStarted(true)
	m.GameStarted(false)
	m.GameStarted(true)
	m.GameFinished("black")
	m.MoveApplied("place")
	m.MoveApplied("override")
	m.OverrideUsed("bot")
	m.Rejected("illegal")
	m.SetActiveSessions(3)

	require.InDelta(t, 2, sample(t, reg, "reversi_games_started_total", map[string]string{"vs_bot": "true"}), 0)
	require.InDelta(t, 1, sample(t, reg, "reversi_games_started_total", map[string]string{"vs_bot": "false"}), 0)
	require.InDelta(t, 1, sample(t, reg, "reversi_games_finished_total", map[string]string{"outcome": "black"}), 0)
	require.InDelta(t, 1, sample(t, reg, "reversi_moves_total", map[string]string{"kind": "override"}), 0)
	require.InDelta(t, 1, sample(t, reg, "reversi_overrides_total", map[string]string{"actor": "bot"}), 0)
	require.InDelta(t, 1, sample(t, reg, "reversi_rejections_total", map[string]string{"reason": "illegal"}), 0)
	require.InDelta(t, 3, sample(t, reg, "reversi_active_sessions", nil), 0)
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
