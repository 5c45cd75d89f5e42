package quote

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	RequestCount       prometheus.Counter
	QuoteCount         prometheus.Counter
	ResponseDuration   prometheus.Histogram
	ResponseCodeCounts *prometheus.CounterVec
}

func newMetrics() metrics {
	const namespace = "quote_service"
	const subsystem = "api"

	return metrics{
		RequestCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_count",
			Help:      "Number of quote generation requests.",
		}),
		QuoteCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quote_count",
			Help:      "Number of quotes generated successfully.",
		}),
		ResponseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_duration_seconds",
			Help:      "Histogram of successful quote generation durations.",
			Buckets:   []float64{0.01, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ResponseCodeCounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "response_code_count",
				Help:      "Response count grouped by status code.",
			},
			[]string{"code", "method"},
		),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestCount,
		m.QuoteCount,
		m.ResponseDuration,
		m.ResponseCodeCounts,
	}
}
