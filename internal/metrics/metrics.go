// Package metrics exposes Prometheus counters for the authentication and
// session protocol.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskmgr"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Rejection reasons reported by the session middleware and role guard.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonNoPrincipal  = "no_principal"
	ReasonWrongRole    = "wrong_role"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	logins     *prometheus.CounterVec
	refreshes  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	requests   *prometheus.HistogramVec
}

// New registers the collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,

		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by entry point role and outcome",
		}, []string{"role", "outcome"}),

		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refreshes_total",
			Help:      "Access token refresh attempts by outcome",
		}, []string{"outcome"}),

		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Requests rejected by the session middleware or role guard",
		}, []string{"reason"}),

		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route template, method and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) ObserveLogin(role string, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

func (m *Metrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRequest(route string, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Logins() *prometheus.CounterVec     { return m.logins }
func (m *Metrics) Refreshes() *prometheus.CounterVec  { return m.refreshes }
func (m *Metrics) Rejections() *prometheus.CounterVec { return m.rejections }
