package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Orders persisted by the submit path, by final status",
		},
		[]string{"status"},
	)

	eventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_events_publish_failures_total",
			Help: "Acceptance events that failed to publish (non-fatal)",
		},
	)

	dispatchesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatches_dropped_total",
			Help: "Dispatch messages referencing an unknown order id",
		},
	)

	dispatchConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_conflicts_total",
			Help: "Dispatch writes rejected by the optimistic version check",
		},
	)
)
