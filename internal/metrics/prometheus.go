// Package metrics records pipeline counters and latencies for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements application.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	TakesFinished *prometheus.CounterVec
	STTRequests   *prometheus.CounterVec
	STTDuration   prometheus.Histogram
	FallbacksUsed prometheus.Counter
	ChatRequests  *prometheus.CounterVec
	ChatDuration  prometheus.Histogram
}

// New registers every metric on a fresh registry so tests can build as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TakesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_assistant_takes_total",
			Help: "Recorded takes by final outcome",
		}, []string{"outcome"}),
		STTRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_assistant_stt_requests_total",
			Help: "Speech-to-text requests by result",
		}, []string{"result"}),
		STTDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_assistant_stt_duration_seconds",
			Help:    "Speech-to-text request latency",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		FallbacksUsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_assistant_fallback_transcripts_total",
			Help: "Takes that used a placeholder transcript",
		}),
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_assistant_chat_requests_total",
			Help: "Chat completion requests by result",
		}, []string{"result"}),
		ChatDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_assistant_chat_duration_seconds",
			Help:    "Chat completion latency",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
		}),
	}
}

func (m *Metrics) TakeFinished(outcome string) {
	m.TakesFinished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) STTRequest(outcome string, elapsed time.Duration) {
	m.STTRequests.WithLabelValues(outcome).Inc()
	m.STTDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) FallbackUsed() {
	m.FallbacksUsed.Inc()
}

func (m *Metrics) ChatRequest(outcome string, elapsed time.Duration) {
	m.ChatRequests.WithLabelValues(outcome).Inc()
	m.ChatDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
