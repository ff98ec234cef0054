// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package metrics exposes the beacon's Prometheus instrumentation:
// polling cycles, feed health, broadcast processing outcomes, and
// per-channel delivery counts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Polling loop
	CyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mowas_cycles_total",
			Help: "Total number of completed polling cycles",
		},
	)

	EmergencyCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mowas_emergency_cycles_total",
			Help: "Cycles that scheduled the emergency interval",
		},
	)

	// Feed client
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mowas_feed_fetches_total",
			Help: "Feed fetch attempts by category and outcome",
		},
		[]string{"category", "outcome"}, // outcome: "ok", "error"
	)

	BroadcastsSeen = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mowas_broadcasts_seen_total",
			Help: "Broadcasts returned by the feeds, by category",
		},
		[]string{"category"},
	)

	// Processing pipeline
	BroadcastsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mowas_broadcasts_delivered_total",
			Help: "Broadcasts that passed all filters and were dispatched",
		},
		[]string{"msgtype"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mowas_cache_entries",
			Help: "Current number of broadcast identifiers held for deduplication",
		},
	)

	// Dispatch
	DeliveryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mowas_delivery_errors_total",
			Help: "Failed channel deliveries by channel name",
		},
		[]string{"channel"},
	)

	// Live position
	PositionRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mowas_position_refreshes_total",
			Help: "aprs.fi position refresh attempts by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)

	// Mailbox retention
	RetentionRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mowas_retention_runs_total",
			Help: "Completed mailbox retention sweeps",
		},
	)

	RetentionDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mowas_retention_deleted_total",
			Help: "Mails deleted by the retention sweeps",
		},
	)
)
