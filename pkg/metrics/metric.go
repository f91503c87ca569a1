package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "navigatorx"

// Metrics. prometheus collectors of the routing engine. a nil *Metrics is valid and records nothing.
type Metrics struct {
	cacheLookups    *prometheus.CounterVec
	predictions     *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	searchExpanded  prometheus.Histogram
	routesReturned  prometheus.Histogram
	searchTruncated prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result (hit or miss).",
		}, []string{"cache", "result"}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_predictions_total",
			Help:      "Flow predictor calls by outcome (ok, unavailable, error).",
		}, []string{"outcome"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_search_duration_seconds",
			Help:      "Duration of one multi-route search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		searchExpanded: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_search_expanded_states",
			Help:      "Partial paths expanded per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		routesReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_search_routes_returned",
			Help:      "Routes returned per search.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		searchTruncated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_search_truncated_total",
			Help:      "Searches stopped by the iteration or frontier cap.",
		}),
	}
}

func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

func (m *Metrics) Prediction(outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSearch(seconds float64, expanded, routes int, truncated bool) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(seconds)
	m.searchExpanded.Observe(float64(expanded))
	m.routesReturned.Observe(float64(routes))
	if truncated {
		m.searchTruncated.Inc()
	}
}
