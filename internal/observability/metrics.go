package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Requests            *prometheus.CounterVec
	StageErrors         *prometheus.CounterVec
	TranscribeLatency   prometheus.Histogram
	GenerateLatency     prometheus.Histogram
	SynthesizeLatency   prometheus.Histogram
	SynthesizedSeconds  prometheus.Counter
	ActiveConversations prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		StageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stage errors by stage.",
		}, []string{"stage"}),
		TranscribeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcribe_latency_ms",
			Help:      "Speech-to-text latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_latency_ms",
			Help:      "Language-model generation latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		SynthesizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesize_latency_ms",
			Help:      "Speech synthesis latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		SynthesizedSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesized_audio_seconds_total",
			Help:      "Total seconds of audio produced by the synthesizer.",
		}),
		ActiveConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_ws_conversations",
			Help:      "Number of live websocket conversation streams.",
		}),
	}
}

func (m *Metrics) ObserveStage(h prometheus.Histogram, start time.Time) {
	h.Observe(float64(time.Since(start).Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
