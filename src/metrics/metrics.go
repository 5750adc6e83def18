package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Trades              *prometheus.CounterVec
	QuoteLookups        *prometheus.CounterVec
	QuoteLookupDuration prometheus.Histogram
	Registrations       *prometheus.CounterVec
	Logins              *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Trades: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_trades_total",
			Help: "Trade attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		QuoteLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_quote_lookups_total",
			Help: "Quote provider calls by outcome.",
		}, []string{"outcome"}),
		QuoteLookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "finance_quote_lookup_duration_seconds",
			Help:    "Latency of quote provider calls.",
			Buckets: prometheus.DefBuckets,
		}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finance_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) ObserveTrade(method string, reason string) {
	if m == nil {
		return
	}
	m.Trades.WithLabelValues(method, reason).Inc()
}

func (m *Metrics) ObserveQuoteLookup(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.QuoteLookups.WithLabelValues(outcome(ok)).Inc()
	m.QuoteLookupDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveRegistration(reason string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveLogin(ok bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
