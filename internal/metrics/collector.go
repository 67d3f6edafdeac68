// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/rudder/internal/engine"
)

type TorrentCollector struct {
	client engine.Client

	torrentsByStateDesc  *prometheus.Desc
	torrentsErroredDesc  *prometheus.Desc
	downloadSpeedDesc    *prometheus.Desc
	uploadSpeedDesc      *prometheus.Desc
	connectionStatusDesc *prometheus.Desc
	scrapeErrorsDesc     *prometheus.Desc
}

func NewTorrentCollector(client engine.Client) *TorrentCollector {
	return &TorrentCollector{
		client: client,

		torrentsByStateDesc: prometheus.NewDesc(
			"rudder_torrents",
			"Number of torrents by state",
			[]string{"state"},
			nil,
		),
		torrentsErroredDesc: prometheus.NewDesc(
			"rudder_torrents_errored",
			"Number of torrents carrying an active error envelope by error class",
			[]string{"error_class"},
			nil,
		),
		downloadSpeedDesc: prometheus.NewDesc(
			"rudder_download_speed_bytes_per_second",
			"Current engine session download speed in bytes per second",
			nil,
			nil,
		),
		uploadSpeedDesc: prometheus.NewDesc(
			"rudder_upload_speed_bytes_per_second",
			"Current engine session upload speed in bytes per second",
			nil,
			nil,
		),
		connectionStatusDesc: prometheus.NewDesc(
			"rudder_engine_connection_status",
			"Engine connection status (1=connected, 0=disconnected)",
			nil,
			nil,
		),
		scrapeErrorsDesc: prometheus.NewDesc(
			"rudder_scrape_errors_total",
			"Total number of scrape errors by type",
			[]string{"type"},
			nil,
		),
	}
}

func (c *TorrentCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.torrentsByStateDesc
	ch <- c.torrentsErroredDesc
	ch <- c.downloadSpeedDesc
	ch <- c.uploadSpeedDesc
	ch <- c.connectionStatusDesc
	ch <- c.scrapeErrorsDesc
}

func (c *TorrentCollector) reportError(ch chan<- prometheus.Metric, errorType string) {
	ch <- prometheus.MustNewConstMetric(
		c.scrapeErrorsDesc,
		prometheus.CounterValue,
		1,
		errorType,
	)
}

func (c *TorrentCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	torrents, err := c.client.ListTorrents(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to list torrents for metrics collection")
		c.reportError(ch, "torrents")
		ch <- prometheus.MustNewConstMetric(c.connectionStatusDesc, prometheus.GaugeValue, 0)
		return
	}

	byState := make(map[engine.TorrentState]float64)
	byErrorClass := make(map[engine.ErrorClass]float64)
	for _, torrent := range torrents {
		byState[torrent.State]++
		if torrent.ErrorEnvelope != nil && torrent.ErrorEnvelope.ErrorClass != engine.ErrorClassNone {
			byErrorClass[torrent.ErrorEnvelope.ErrorClass]++
		}
	}

	for state, count := range byState {
		ch <- prometheus.MustNewConstMetric(c.torrentsByStateDesc, prometheus.GaugeValue, count, string(state))
	}
	for class, count := range byErrorClass {
		ch <- prometheus.MustNewConstMetric(c.torrentsErroredDesc, prometheus.GaugeValue, count, string(class))
	}

	stats, err := c.client.SessionStats(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to fetch session stats for metrics collection")
		c.reportError(ch, "session_stats")
		ch <- prometheus.MustNewConstMetric(c.connectionStatusDesc, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.downloadSpeedDesc, prometheus.GaugeValue, float64(stats.DownloadSpeed))
	ch <- prometheus.MustNewConstMetric(c.uploadSpeedDesc, prometheus.GaugeValue, float64(stats.UploadSpeed))
	ch <- prometheus.MustNewConstMetric(c.connectionStatusDesc, prometheus.GaugeValue, 1)
}
