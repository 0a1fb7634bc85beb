package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// NotificationsEnqueuedTotal counts notifications accepted by the dispatcher.
	NotificationsEnqueuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "push",
		Name:      "notifications_enqueued_total",
		Help:      "Total number of push notifications accepted into the dispatch queue.",
	})

	// NotificationsDroppedTotal counts notifications dropped before delivery, by reason.
	NotificationsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "push",
		Name:      "notifications_dropped_total",
		Help:      "Total number of push notifications dropped before delivery, labeled by reason.",
	}, []string{"reason"})

	// NotificationsSentTotal counts delivery attempts by result.
	NotificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "push",
		Name:      "notifications_sent_total",
		Help:      "Total number of push delivery attempts, labeled by result.",
	}, []string{"result"})

	// NotificationsInFlight is the number of notifications currently being delivered.
	NotificationsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "grievance",
		Subsystem: "push",
		Name:      "notifications_in_flight",
		Help:      "Current number of push notifications being delivered by worker goroutines.",
	})

	// BreakerOpen is 1 while the push circuit breaker is open.
	BreakerOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "grievance",
		Subsystem: "push",
		Name:      "breaker_open",
		Help:      "Whether the push delivery circuit breaker is currently open.",
	})

	// ClassificationsTotal counts classification attempts by result.
	ClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "classify",
		Name:      "classifications_total",
		Help:      "Total number of image classification attempts, labeled by result.",
	}, []string{"result"})

	// ClassificationDurationSeconds is the time spent waiting on the classification service.
	ClassificationDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grievance",
		Subsystem: "classify",
		Name:      "classification_duration_seconds",
		Help:      "Time spent on classification service calls during intake.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	})

	// EventsPublishedTotal counts complaint events published to RabbitMQ by result.
	EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total number of complaint events published to RabbitMQ, labeled by result.",
	}, []string{"result"})
)

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			NotificationsEnqueuedTotal,
			NotificationsDroppedTotal,
			NotificationsSentTotal,
			NotificationsInFlight,
			BreakerOpen,
			ClassificationsTotal,
			ClassificationDurationSeconds,
			EventsPublishedTotal,
		)
	})
}
