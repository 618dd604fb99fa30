package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "image_converter"

type Metrics struct {
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
	downloaded  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers all collectors on a fresh registry so several instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Finished conversion requests by outcome and resize policy.",
		}, []string{"outcome", "warped"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of conversion requests.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Platform link resolutions by platform and result.",
		}, []string{"platform", "result"}),
		downloaded: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_bytes",
			Help:      "Size of downloaded source images.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 8),
		}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveConversion(outcome string, warped bool, d time.Duration) {
	w := "false"
	if warped {
		w = "true"
	}
	m.conversions.WithLabelValues(outcome, w).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveResolution(platform string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.resolutions.WithLabelValues(platform, result).Inc()
}

func (m *Metrics) ObserveDownload(size int) {
	m.downloaded.Observe(float64(size))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
