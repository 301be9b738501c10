package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contributionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chitfund_contributions_recorded_total",
		Help: "Number of contributions written to the ledger.",
	})

	settlementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chitfund_settlements_recorded_total",
		Help: "Number of settlements written to the ledger, by kind.",
	}, []string{"kind"})

	cyclesAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chitfund_cycles_advanced_total",
		Help: "Number of successful cycle advances.",
	})

	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chitfund_notification_failures_total",
		Help: "Number of outbound notification attempts that failed.",
	})
)
