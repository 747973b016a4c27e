// Package metrics defines the Prometheus collectors for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trolley_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trolley_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// WSConnections tracks currently open websocket connections.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trolley_ws_connections",
		Help: "Open websocket connections.",
	})

	// RoomSubscribers tracks current room subscriptions across all rooms.
	RoomSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trolley_room_subscribers",
		Help: "Active room subscriptions.",
	})

	// EventsEmitted counts fan-out events by kind.
	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trolley_events_emitted_total",
		Help: "Real-time events emitted to rooms.",
	}, []string{"event"})
)
