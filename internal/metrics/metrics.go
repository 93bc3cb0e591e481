// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger counters. Exposed on /metrics by the API router.
var (
	CreditsPurchased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credits_purchased_total",
		Help: "Total credits added through purchases.",
	})

	CreditsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credits_spent_total",
		Help: "Total credits consumed by the spend engine.",
	})

	CreditsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credits_expired_total",
		Help: "Total credits zeroed by the expiration sweeper.",
	})

	SweepBatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_batch_failures_total",
		Help: "Batches that failed during an expiration sweep.",
	})

	VacancyTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vacancy_transitions_total",
		Help: "Vacancy status transitions by target status.",
	}, []string{"to"})

	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacancy_sync_failures_total",
		Help: "Failed best-effort sync notifications.",
	})
)
