package catalogd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_catalogd_requests_total",
		Help: "Total number of HTTP requests to the catalog server",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marquee_catalogd_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	itemsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_catalogd_items_served_total",
		Help: "Catalog items returned per list",
	}, []string{"list"})
)
