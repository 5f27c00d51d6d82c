// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus instrumentation of the ledger
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlocks       *prometheus.CounterVec
	prometheusUnwound      prometheus.Counter
	prometheusRejects      *prometheus.CounterVec
	prometheusExecutions   *prometheus.CounterVec
	prometheusTxEvents     *prometheus.CounterVec
	prometheusHookPanics   prometheus.Counter
	prometheusLastHeight   prometheus.Gauge
	prometheusUnconfirmed  prometheus.Gauge
	prometheusConfirmed    prometheus.Gauge
	prometheusPools        prometheus.Gauge
	prometheusStoredBlocks prometheus.Gauge

	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolkeeper_blocks",
			Help: "Number of block announcements by classification",
		},
		[]string{
			"result", // next-in-chain, duplicate, recoverable, unrecoverable or error
		},
	)
	prometheusUnwound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolkeeper_reorg_unwound_blocks",
			Help: "Number of stored blocks removed by reorgs",
		},
	)
	prometheusRejects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolkeeper_rejects",
			Help: "Number of reject calls",
		},
		[]string{
			"result", // rolled-back, ignored or error
		},
	)
	prometheusExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolkeeper_executions",
			Help: "Number of execute calls",
		},
		[]string{
			"result", // ok, busy or error
		},
	)
	prometheusTxEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolkeeper_tx_events",
			Help: "Number of per pool transaction lifecycle events",
		},
		[]string{
			"event", // confirmed, finalized or rolled-back
		},
	)
	prometheusHookPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolkeeper_hook_panics",
			Help: "Number of panics recovered from application hooks",
		},
	)
	prometheusLastHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolkeeper_last_block_height",
			Help: "Height of the last stored block",
		},
	)
	prometheusUnconfirmed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolkeeper_unconfirmed_txs",
			Help: "Number of unconfirmed transaction records",
		},
	)
	prometheusConfirmed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolkeeper_confirmed_txs",
			Help: "Number of confirmed but not yet finalized transaction records",
		},
	)
	prometheusPools = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolkeeper_pools",
			Help: "Number of registered pools",
		},
	)
	prometheusStoredBlocks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolkeeper_stored_blocks",
			Help: "Number of blocks still inside the finalize threshold",
		},
	)
}

// BlockClassified - count one block announcement
func BlockClassified(result string) {
	initPrometheusMetrics()
	prometheusBlocks.WithLabelValues(result).Inc()
}

// BlocksUnwound - count blocks removed by a reorg
func BlocksUnwound(n int) {
	initPrometheusMetrics()
	prometheusUnwound.Add(float64(n))
}

// Rejected - count one reject call
func Rejected(result string) {
	initPrometheusMetrics()
	prometheusRejects.WithLabelValues(result).Inc()
}

// Executed - count one execute call
func Executed(result string) {
	initPrometheusMetrics()
	prometheusExecutions.WithLabelValues(result).Inc()
}

// HookPanic - count one recovered hook panic
func HookPanic() {
	initPrometheusMetrics()
	prometheusHookPanics.Inc()
}

func txEvent(event string) {
	initPrometheusMetrics()
	prometheusTxEvents.WithLabelValues(event).Inc()
}
