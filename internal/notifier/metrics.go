package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "silowatch",
		Subsystem: "notifier",
		Name:      "updates_processed_total",
		Help:      "Health factor updates handled by the matcher/dispatcher pipeline",
	})

	staleUpdatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "silowatch",
		Subsystem: "notifier",
		Name:      "stale_updates_dropped_total",
		Help:      "Updates dropped because a newer block was already seen for the position",
	})

	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "silowatch",
		Subsystem: "notifier",
		Name:      "notifications_sent_total",
		Help:      "Alerts delivered to the messaging boundary",
	})

	sendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "silowatch",
		Subsystem: "notifier",
		Name:      "send_failures_total",
		Help:      "Alert deliveries that failed or timed out",
	})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "silowatch",
		Subsystem: "notifier",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent delivering one alert",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)
