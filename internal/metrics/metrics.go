// Package metrics declares the Prometheus instruments exposed by the
// pricing engine and tool surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts C1 remote fetches by cache ("manifest", "definition",
	// "pricing") and outcome ("hit", "miss", "error").
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awscalc",
		Name:      "fetch_total",
		Help:      "Remote document fetches by cache and outcome",
	}, []string{"cache", "outcome"})

	FetchDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "awscalc",
		Name:      "fetch_duration_seconds",
		Help:      "Remote document fetch latency by cache",
		Buckets:   prometheus.DefBuckets,
	}, []string{"cache"})

	// ToolCallTotal counts tool-surface invocations by tool name and outcome
	// ("ok", "error").
	ToolCallTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awscalc",
		Name:      "tool_call_total",
		Help:      "Tool surface invocations by tool and outcome",
	}, []string{"tool", "outcome"})

	ToolCallDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "awscalc",
		Name:      "tool_call_duration_seconds",
		Help:      "Tool surface invocation latency by tool",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})

	// EstimateSaveRetryTotal counts how often the strip-and-retry save
	// recovery path was taken.
	EstimateSaveRetryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "awscalc",
		Name:      "estimate_save_retry_total",
		Help:      "Total estimate saves that required the strip-and-retry recovery path",
	})
)
