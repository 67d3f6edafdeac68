// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
	"github.com/autobrr/rudder/internal/recovery"
)

type Manager struct {
	registry         *prometheus.Registry
	torrentCollector *TorrentCollector
	recoveryOutcomes *prometheus.CounterVec
}

func NewManager(client engine.Client) *Manager {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	torrentCollector := NewTorrentCollector(client)
	registry.MustRegister(torrentCollector)

	recoveryOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rudder_recovery_sequences_total",
			Help: "Total number of completed recovery sequences by status and log reason",
		},
		[]string{"status", "log"},
	)
	registry.MustRegister(recoveryOutcomes)

	log.Info().Msg("Metrics manager initialized with torrent collector")

	return &Manager{
		registry:         registry,
		torrentCollector: torrentCollector,
		recoveryOutcomes: recoveryOutcomes,
	}
}

func (m *Manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// ObserveRecoveryOutcome records one completed recovery sequence. Wire it as
// the recovery session's outcome handler.
func (m *Manager) ObserveRecoveryOutcome(hash string, result recovery.SequenceResult) {
	m.recoveryOutcomes.WithLabelValues(string(result.Status), result.Log).Inc()
}
