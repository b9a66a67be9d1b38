package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmarket_errors_total",
			Help: "Total number of logged errors by error type and log level.",
		},
		[]string{"type", "level"},
	)
	AuthOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmarket_auth_operations_total",
			Help: "Session operations by name and result.",
		},
		[]string{"operation", "result"},
	)
	MessagesSentCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmarket_messages_sent_total",
			Help: "Total number of stored messages.",
		},
	)
	FilterDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobmarket_filter_duration_seconds",
			Help:       "Duration of applying listing filters.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"listing"},
	)
	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmarket_http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	PendingRegistrationsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmarket_pending_registrations",
			Help: "Credentials waiting for their profile to be created.",
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(AuthOperationsCounter)
		prometheus.MustRegister(MessagesSentCounter)
		prometheus.MustRegister(FilterDuration)
		prometheus.MustRegister(HttpRequestDuration)
		prometheus.MustRegister(PendingRegistrationsGauge)
	})
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
