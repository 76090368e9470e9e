package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepDuration measures sweep duration per job.
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cost_sweep_duration_seconds",
			Help:    "Sweep duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	// SweepTenants counts tenants handled by sweeps, by outcome.
	SweepTenants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cost_sweep_tenants_total",
			Help: "Total tenants handled by sweeps, by outcome",
		},
		[]string{"job", "outcome"},
	)

	// CostRecordsWritten counts cost records written to the ledger.
	CostRecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cost_records_written_total",
			Help: "Total cost records written to the ledger",
		},
	)

	// RecommendationsEmitted counts emitted recommendations by kind.
	RecommendationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cost_recommendations_emitted_total",
			Help: "Total recommendations emitted, by kind",
		},
		[]string{"kind"},
	)
)
