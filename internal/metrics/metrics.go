package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smms", Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smms", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	DashboardBuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "smms", Name: "dashboard_builds_total", Help: "Dashboards aggregated from a fresh snapshot",
	})
	DashboardCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smms", Name: "dashboard_cache_total", Help: "Dashboard memo lookups by result",
	}, []string{"result"})
	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smms", Name: "fetch_errors_total", Help: "Failed data store loads by source",
	}, []string{"source"})
	FetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "smms", Name: "snapshot_fetch_seconds", Help: "Latency of the joined data store fan-out",
		Buckets: prometheus.DefBuckets,
	})
	ChangeEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smms", Name: "campaign_changes_total", Help: "Campaign change events published by op",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, DashboardBuilds, DashboardCache, FetchErrors, FetchLatency, ChangeEvents)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveFetch(d time.Duration) { FetchLatency.Observe(d.Seconds()) }

func ObserveRequest(route, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(route, status).Inc()
	HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
}
