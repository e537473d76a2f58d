// Package metrics counts what the decode pipeline does with a capture.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jfrview"

// Pipeline holds the decode counters. A nil *Pipeline is valid and records
// nothing.
type Pipeline struct {
	events       prometheus.Counter
	samples      *prometheus.CounterVec
	decodeErrors prometheus.Counter
	parseSeconds prometheus.Histogram
}

// NewPipeline registers the pipeline collectors with reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	f := promauto.With(reg)
	return &Pipeline{
		events: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events surfaced by the JFR reader.",
		}),
		samples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_decoded_total",
			Help:      "Execution samples decoded, by origin.",
		}, []string{"native"}),
		decodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Events that failed to decode.",
		}),
		parseSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_seconds",
			Help:      "Wall time of one full pass over a capture.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

func (p *Pipeline) Event() {
	if p != nil {
		p.events.Inc()
	}
}

func (p *Pipeline) Sample(native bool) {
	if p == nil {
		return
	}
	if native {
		p.samples.WithLabelValues("true").Inc()
	} else {
		p.samples.WithLabelValues("false").Inc()
	}
}

func (p *Pipeline) DecodeError() {
	if p != nil {
		p.decodeErrors.Inc()
	}
}

func (p *Pipeline) ParseDone(seconds float64) {
	if p != nil {
		p.parseSeconds.Observe(seconds)
	}
}

// Handler serves the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
