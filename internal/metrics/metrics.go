// Package metrics exposes server counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "connections_accepted_total",
		Help:      "Accepted TCP connections.",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wordduel",
		Name:      "connections_active",
		Help:      "Currently connected clients.",
	})

	FramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "frames_received_total",
		Help:      "Complete frames decoded from clients.",
	})

	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "frames_dropped_total",
		Help:      "Frames discarded for version mismatch or unknown type.",
	})

	PacketsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "packets_handled_total",
		Help:      "Requests processed, by packet type.",
	}, []string{"type"})

	HandleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wordduel",
		Name:      "handle_duration_seconds",
		Help:      "Request handling latency.",
		Buckets:   prometheus.DefBuckets,
	})

	MatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "matches_started_total",
		Help:      "Matches started.",
	})

	MatchesEnded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordduel",
		Name:      "matches_ended_total",
		Help:      "Matches finished or resigned.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wordduel",
		Name:      "sessions_active",
		Help:      "Authenticated sessions.",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
