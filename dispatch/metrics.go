/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hookagent",
		Name:      "webhook_requests_total",
		Help:      "Webhook requests by event type and response status code.",
	}, []string{"event", "code"})

	dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hookagent",
		Name:      "dispatches_total",
		Help:      "Dispatched actions by action and outcome (ok, not_configured, error).",
	}, []string{"action", "outcome"})

	sideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hookagent",
		Name:      "side_effect_failures_total",
		Help:      "Isolated failures of the activity log and notification steps.",
	}, []string{"step"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hookagent",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent in the executor or scaffold builder.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 90},
	}, []string{"action"})
)
