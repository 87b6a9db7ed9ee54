package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessDecisions counts card-swipe evaluations by outcome reason.
	// The reason label is "granted" for successful swipes.
	AccessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorguard_access_decisions_total",
			Help: "Total number of card swipe decisions",
		},
		[]string{"reason"},
	)

	// MovementReports counts PIR sensor reports by correlation outcome
	// (authorized|suspicious).
	MovementReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorguard_movement_reports_total",
			Help: "Total number of motion reports",
		},
		[]string{"outcome"},
	)

	// AlertsRaised counts security alerts created by the movement correlator.
	AlertsRaised = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "doorguard_alerts_raised_total",
			Help: "Total number of security alerts created",
		},
	)

	// MailDispatches counts asynchronous alert email deliveries by result.
	MailDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorguard_mail_dispatches_total",
			Help: "Total number of alert email dispatch attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies. The surface label
	// separates device traffic (readers, sensors) from dashboard and
	// public endpoints.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doorguard_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"surface", "method", "path", "status"},
	)
)
