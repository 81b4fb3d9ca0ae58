package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NotificationMetrics covers the fan-out pipeline end to end.
type NotificationMetrics struct {
	OrdersPreparedTotal prometheus.Counter

	OrdersProcessedTotal prometheus.CounterVec

	EmailsSentTotal   prometheus.CounterVec
	EmailErrorsTotal  prometheus.CounterVec
	EmailRetriesTotal prometheus.CounterVec

	MissedCallsTotal prometheus.CounterVec

	EmergencyFanoutsTotal prometheus.Counter

	FanoutDuration prometheus.HistogramVec
}

func NewNotificationMetrics() *NotificationMetrics {
	return &NotificationMetrics{
		OrdersPreparedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_prepared_total",
				Help: "Orders staged for payment confirmation",
			},
		),

		OrdersProcessedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_processed_total",
				Help: "Completed notification fan-outs by order data provenance",
			},
			[]string{"data_source"},
		),

		EmailsSentTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_emails_sent_total",
				Help: "Delivered notification emails by channel kind",
			},
			[]string{"kind"},
		),

		EmailErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_email_errors_total",
				Help: "Failed notification email attempts by channel kind",
			},
			[]string{"kind"},
		),

		EmailRetriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_email_retries_total",
				Help: "Degraded/fallback email retries by channel kind",
			},
			[]string{"kind"},
		),

		MissedCallsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "missed_calls_total",
				Help: "Vendor missed-call attempts by final outcome",
			},
			[]string{"outcome"},
		),

		EmergencyFanoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "emergency_fanouts_total",
				Help: "Fan-outs that fell back to the emergency admin-only path",
			},
		),

		FanoutDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notification_fanout_duration_seconds",
				Help:    "Wall time of one notification fan-out",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"emergency"},
		),
	}
}
