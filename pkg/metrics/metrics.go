// Package metrics holds the Prometheus collectors of the backend.
//
// All methods are safe on a nil *Collectors, so services can run without metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linguachat"

type Collectors struct {
	registry *prometheus.Registry

	authRejections *prometheus.CounterVec
	friendRequests *prometheus.CounterVec
	chatSync       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "rejections_total",
				Help:      "Requests rejected by the auth gate, by reason.",
			},
			[]string{"reason"},
		),
		friendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "friends",
				Name:      "requests_total",
				Help:      "Friend request operations, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		chatSync: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "identity_sync_total",
				Help:      "Chat identity upserts, by call site and outcome.",
			},
			[]string{"call_site", "outcome"},
		),
	}

	c.registry.MustRegister(
		c.authRejections,
		c.friendRequests,
		c.chatSync,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// AuthRejected counts a gate rejection
func (c *Collectors) AuthRejected(reason string) {
	if c == nil {
		return
	}
	c.authRejections.WithLabelValues(reason).Inc()
}

// FriendRequest counts a friend-request operation. outcome is "ok" or an error reason.
func (c *Collectors) FriendRequest(operation, outcome string) {
	if c == nil {
		return
	}
	c.friendRequests.WithLabelValues(operation, outcome).Inc()
}

// ChatSync counts a chat identity upsert attempt
func (c *Collectors) ChatSync(callSite string, ok bool) {
	if c == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	c.chatSync.WithLabelValues(callSite, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
