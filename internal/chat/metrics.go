package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	sendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatd",
			Subsystem: "chat",
			Name:      "sends_total",
			Help:      "Send operations by outcome (reply, error, empty, discarded, rejected)",
		},
		[]string{"outcome"},
	)

	completionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chatd",
			Subsystem: "chat",
			Name:      "completion_duration_seconds",
			Help:      "Duration of engine completion requests in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

func init() {
	prometheus.MustRegister(sendsTotal, completionDuration)
}
