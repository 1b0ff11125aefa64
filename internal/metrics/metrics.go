package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the flight status refresher.
type Metrics struct {
	RefreshPasses    prometheus.Counter
	FlightsRefreshed prometheus.Counter
	RefreshDuration  prometheus.Histogram
	ErrorsCount      *prometheus.CounterVec
}

// New registers and returns the service metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		RefreshPasses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_refresh_passes_total",
			Help:      "The total number of completed flight status refresh passes",
		}),
		FlightsRefreshed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_refreshed_total",
			Help:      "The total number of flights whose cached status was updated",
		}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_refresh_pass_duration_seconds",
			Help:      "Duration of a full flight status refresh pass",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
