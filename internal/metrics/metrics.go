// Package metrics provides Prometheus metrics for the ranking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RankingRequests counts ranking lookups by cache outcome.
	RankingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ranking",
			Name:      "requests_total",
			Help:      "Total number of ranking lookups",
		},
		[]string{"cache"},
	)

	// HarvestRuns counts harvester runs by outcome.
	HarvestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ranking",
			Name:      "harvest_runs_total",
			Help:      "Total number of harvest runs",
		},
		[]string{"status"},
	)

	// HarvestDuration measures a full harvest across all tags.
	HarvestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ranking",
			Name:      "harvest_duration_seconds",
			Help:      "Duration of harvest runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// HarvestedEntries records the size of the last stored ranking per tag.
	HarvestedEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ranking",
			Name:      "harvested_entries",
			Help:      "Entries stored by the last harvest of each tag",
		},
		[]string{"tag"},
	)
)
