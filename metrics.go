package docsite

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "docsite"

type metrics struct {
	pagesCompiled prometheus.Counter
	pagesLoaded   prometheus.Gauge
	loadErrors    prometheus.Counter
	loadDuration  prometheus.Histogram
	ogRendered    prometheus.Counter
	redirects     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		pagesCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "pages_compiled_total",
			Help:      "Number of content documents compiled.",
		}),
		pagesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "pages",
			Help:      "Number of pages in the current content snapshot.",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "load_errors_total",
			Help:      "Number of failed content loads.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "load_duration_seconds",
			Help:      "Time taken to compile the whole content tree.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		ogRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "og",
			Name:      "images_rendered_total",
			Help:      "Number of Open Graph images rendered.",
		}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "redirects_total",
			Help:      "Number of redirects served, by source path.",
		}, []string{"source"}),
	}
	reg.MustRegister(m.pagesCompiled, m.pagesLoaded, m.loadErrors, m.loadDuration, m.ogRendered, m.redirects)
	return m
}
