package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_reservations_granted_total",
		Help: "Reservation grants recorded by the stock ledger.",
	})

	ReservationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_reservations_rejected_total",
		Help: "Reservation requests rejected, partitioned by reason.",
	}, []string{"reason"})

	OrdersReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_orders_released_total",
		Help: "Release operations that restored at least zero entries.",
	})

	CompensationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_compensation_failures_total",
		Help: "Restores or journal deletions that did not land during rollback. Requires operator reconciliation.",
	})

	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_gateway_upstream_failures_total",
		Help: "Forwarded requests that failed at the transport level, partitioned by target.",
	}, []string{"target"})
)
