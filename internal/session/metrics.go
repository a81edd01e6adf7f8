package session

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatd",
			Subsystem: "session",
			Name:      "loads_total",
			Help:      "Engine loads by outcome (ready, failed, stale)",
		},
		[]string{"outcome"},
	)

	loadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatd",
			Subsystem: "session",
			Name:      "load_duration_seconds",
			Help:      "Duration of engine construction in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	resetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatd",
			Subsystem: "session",
			Name:      "resets_total",
			Help:      "Total number of controller resets",
		},
	)

	staleCallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatd",
			Subsystem: "session",
			Name:      "stale_callbacks_total",
			Help:      "Asynchronous callbacks discarded because their generation was superseded",
		},
		[]string{"kind"},
	)

	eventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatd",
			Subsystem: "session",
			Name:      "events_dropped_total",
			Help:      "Events dropped for subscribers with a full buffer",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, loadDuration, resetsTotal, staleCallbacksTotal, eventsDroppedTotal)
}
