package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellness_records_submitted_total",
			Help: "Total number of wellness records persisted.",
		},
	)

	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_alerts_raised_total",
			Help: "Alert reasons detected on submitted records.",
		},
		[]string{"reason"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_notifications_sent_total",
			Help: "Alert notifications handed to a transport.",
		},
		[]string{"driver"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_notification_failures_total",
			Help: "Alert notifications that could not be delivered or queued.",
		},
		[]string{"stage"},
	)

	UserCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_user_cache_lookups_total",
			Help: "User directory cache lookups by result.",
		},
		[]string{"result"},
	)
)
