// Package metrics exposes relay counters to Prometheus.
//
// Each Collector owns its registry so tests can build isolated instances.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons.
const (
	DropClosed         = "closed"
	DropBackpressure   = "backpressure"
	DropTargetNotFound = "target_not_found"
	DropNoRoom         = "no_room"
	DropMalformed      = "malformed"
	DropRateLimited    = "rate_limited"
)

const (
	RoomKindDocument = "document"
	RoomKindVideo    = "video"
)

type Collector struct {
	registry *prometheus.Registry

	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	roomsActive       *prometheus.GaugeVec
	messagesTotal     *prometheus.CounterVec
	droppedTotal      *prometheus.CounterVec
	deliveredTotal    prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livedocs_connections_active",
			Help: "Number of live relay connections",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livedocs_connections_total",
			Help: "Total number of accepted relay connections",
		}),
		roomsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "livedocs_rooms_active",
			Help: "Number of non-empty rooms by kind",
		}, []string{"kind"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livedocs_messages_received_total",
			Help: "Inbound messages by envelope type",
		}, []string{"type"}),
		droppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livedocs_deliveries_dropped_total",
			Help: "Messages or deliveries dropped, by reason",
		}, []string{"reason"}),
		deliveredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livedocs_deliveries_total",
			Help: "Frames queued to peers",
		}),
	}
	c.registry.MustRegister(
		c.connectionsActive,
		c.connectionsTotal,
		c.roomsActive,
		c.messagesTotal,
		c.droppedTotal,
		c.deliveredTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Inc()
	c.connectionsTotal.Inc()
}

func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Dec()
}

func (c *Collector) SetRooms(kind string, n int) {
	if c == nil {
		return
	}
	c.roomsActive.WithLabelValues(kind).Set(float64(n))
}

func (c *Collector) MessageReceived(typ string) {
	if c == nil {
		return
	}
	c.messagesTotal.WithLabelValues(typ).Inc()
}

func (c *Collector) Dropped(reason string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.droppedTotal.WithLabelValues(reason).Add(float64(n))
}

func (c *Collector) Delivered(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.deliveredTotal.Add(float64(n))
}
