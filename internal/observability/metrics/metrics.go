// Package metrics provides Prometheus metrics for the streaming ASR core.
// Exporting them over HTTP is the embedding service's job, not this
// package's; Recorder only registers and updates the collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "asr_core"

// Recorder holds all Prometheus metrics for the streaming core.
type Recorder struct {
	ChunksProcessed    prometheus.Counter
	ChunksRejectedBusy prometheus.Counter
	InvalidAudioTotal  *prometheus.CounterVec
	InferenceFailures  *prometheus.CounterVec

	EncoderLatency prometheus.Histogram
	DecoderLatency prometheus.Histogram
	ChunkRTFx      prometheus.Histogram

	TokensEmitted prometheus.Counter
	EOUConfirmed  prometheus.Counter

	SessionsActive prometheus.Gauge
}

// DefaultRecorder is the global metrics instance.
var DefaultRecorder = NewRecorder()

// NewRecorder creates and registers all Prometheus collectors.
func NewRecorder() *Recorder {
	return &Recorder{
		ChunksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_processed_total",
			Help:      "Total number of audio chunks successfully processed",
		}),
		ChunksRejectedBusy: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_rejected_busy_total",
			Help:      "Total number of chunks rejected because a session was already processing",
		}),
		InvalidAudioTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_audio_total",
			Help:      "Total number of chunks rejected as invalid audio",
		}, []string{"reason"}),
		InferenceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_failures_total",
			Help:      "Total number of inference failures by stage",
		}, []string{"stage"}),

		EncoderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encoder_forward_latency_seconds",
			Help:      "Encoder forward pass latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		DecoderLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decoder_chunk_latency_seconds",
			Help:      "Total greedy decode latency per chunk in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		ChunkRTFx: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_rtfx",
			Help:      "Real-time factor (audio seconds / wall seconds) per processed chunk",
			Buckets:   []float64{1, 5, 10, 20, 50, 100, 200},
		}),

		TokensEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_emitted_total",
			Help:      "Total number of non-blank tokens emitted",
		}),
		EOUConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eou_confirmed_total",
			Help:      "Total number of confirmed end-of-utterance boundaries",
		}),

		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently holding the processing semaphore",
		}),
	}
}

// RecordChunkProcessed records a successfully processed chunk and its
// real-time factor, audioSeconds of audio processed in wallSeconds.
func (r *Recorder) RecordChunkProcessed(audioSeconds, wallSeconds float64) {
	r.ChunksProcessed.Inc()
	if wallSeconds > 0 {
		r.ChunkRTFx.Observe(audioSeconds / wallSeconds)
	}
}

// RecordBusyRejection records a chunk rejected because the session was
// already processing another chunk.
func (r *Recorder) RecordBusyRejection() {
	r.ChunksRejectedBusy.Inc()
}

// RecordInvalidAudio records a chunk rejected as invalid audio.
func (r *Recorder) RecordInvalidAudio(reason string) {
	r.InvalidAudioTotal.WithLabelValues(reason).Inc()
}

// RecordInferenceFailure records an inference failure at the named stage
// ("encoder" or "decoder"; the session reports joint failures as "decoder").
func (r *Recorder) RecordInferenceFailure(stage string) {
	r.InferenceFailures.WithLabelValues(stage).Inc()
}

// RecordEncoderLatency observes one encoder forward pass duration.
func (r *Recorder) RecordEncoderLatency(seconds float64) {
	r.EncoderLatency.Observe(seconds)
}

// RecordDecoderLatency observes one chunk's total decode loop duration.
func (r *Recorder) RecordDecoderLatency(seconds float64) {
	r.DecoderLatency.Observe(seconds)
}

// RecordTokensEmitted increments the token counter by n.
func (r *Recorder) RecordTokensEmitted(n int) {
	r.TokensEmitted.Add(float64(n))
}

// RecordEOUConfirmed records a confirmed end-of-utterance boundary.
func (r *Recorder) RecordEOUConfirmed() {
	r.EOUConfirmed.Inc()
}
