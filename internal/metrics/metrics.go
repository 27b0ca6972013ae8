package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Poller metrics
	PollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intel_poll_cycles_total",
			Help: "Total poll cycles by outcome (changed, unchanged, error)",
		},
		[]string{"outcome"},
	)

	CachedIncidents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intel_cached_incidents",
			Help: "Number of incidents in the current cache snapshot",
		},
	)

	LegacyIDsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intel_legacy_ids_skipped_total",
			Help: "Incidents excluded from the artifact cache due to legacy identifiers",
		},
	)

	// Gateway metrics
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intel_chat_requests_total",
			Help: "Total chat requests by outcome (greeting, answered, unreachable, error)",
		},
		[]string{"outcome"},
	)

	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intel_store_requests_total",
			Help: "Total remote store requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	// WebSocket metrics
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intel_ws_connections",
			Help: "Currently registered WebSocket connections",
		},
	)

	BroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intel_ws_broadcasts_total",
			Help: "Broadcast deliveries by result (delivered, failed)",
		},
		[]string{"result"},
	)
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(
		PollCyclesTotal,
		CachedIncidents,
		LegacyIDsSkipped,
		ChatRequestsTotal,
		StoreRequestsTotal,
		ActiveConnections,
		BroadcastsTotal,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
