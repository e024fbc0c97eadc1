package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics tracks background attribute extraction.
type WorkerMetrics struct {
	*AnalysisMetrics

	registry *prometheus.Registry

	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	queueLag  prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := newRegistry()
	factory := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"service": service}, registry))

	return &WorkerMetrics{
		AnalysisMetrics: newAnalysisMetrics(service, registry),
		registry:        registry,
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "item_process_total",
			Help:      "Processed wardrobe items by status.",
		}, []string{"status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "item_process_duration_seconds",
			Help:      "Attribute extraction duration in seconds by status.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"status"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "item_process_in_flight",
			Help:      "Number of in-flight wardrobe item extractions.",
		}),
		queueLag: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between publishing an item and starting its extraction.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		}),
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *WorkerMetrics) StartItem() {
	m.inFlight.Inc()
}

func (m *WorkerMetrics) FinishItem(elapsed time.Duration, err error) {
	m.inFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.processed.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveQueueLag ignores negative lag from clock skew between hosts.
func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
