// Package metrics exposes Prometheus instrumentation for the session host.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairpad_rooms_created_total",
		Help: "Rooms created over process lifetime.",
	})
	RoomsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pairpad_rooms_live",
		Help: "Rooms currently held by the registry.",
	})
	ConnectionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pairpad_connections_live",
		Help: "Open websocket connections.",
	})
	InboundEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairpad_inbound_events_total",
		Help: "Inbound wire events by type.",
	}, []string{"type"})
	DroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairpad_dropped_frames_total",
		Help: "Outbound frames dropped on backpressure or dead transport.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
