// Package metrics instruments the AX.25 gateway with real Prometheus
// collectors (github.com/prometheus/client_golang), replacing hand-rolled
// counters with the ecosystem's own registry and text-exposition format.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every metric the gateway exports, registered against a
// private registry so tests can spin up isolated instances.
type Collector struct {
	registry *prometheus.Registry

	FramesDecoded   *prometheus.CounterVec
	FramesRejected  *prometheus.CounterVec
	BytesDecoded    prometheus.Counter
	FCSFailures     prometheus.Counter
	FragmentsSeen   prometheus.Counter
	SessionsStarted prometheus.Counter
	SessionsDone    prometheus.Counter
	SessionsActive  prometheus.Gauge
	ReassemblyTime  prometheus.Histogram
}

// NewCollector builds and registers every metric.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ax25_frames_decoded_total",
			Help: "Total UI frames successfully decoded, by source callsign.",
		}, []string{"source"}),
		FramesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ax25_frames_rejected_total",
			Help: "Total frames that failed to decode, by reason.",
		}, []string{"reason"}),
		BytesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ax25_bytes_decoded_total",
			Help: "Total payload bytes successfully decoded from information fields.",
		}),
		FCSFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ax25_fcs_failures_total",
			Help: "Total frames rejected due to an FCS mismatch.",
		}),
		FragmentsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ax25_matrix_fragments_total",
			Help: "Total matrix fragments received across all sessions.",
		}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ax25_matrix_sessions_started_total",
			Help: "Total matrix reassembly sessions started.",
		}),
		SessionsDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ax25_matrix_sessions_completed_total",
			Help: "Total matrix reassembly sessions completed successfully.",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ax25_matrix_sessions_active",
			Help: "Matrix reassembly sessions currently in flight.",
		}),
		ReassemblyTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ax25_matrix_reassembly_seconds",
			Help:    "Wall-clock time from a session's first chunk to its last.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.FramesDecoded,
		c.FramesRejected,
		c.BytesDecoded,
		c.FCSFailures,
		c.FragmentsSeen,
		c.SessionsStarted,
		c.SessionsDone,
		c.SessionsActive,
		c.ReassemblyTime,
	)

	return c
}

// Registry returns the collector's private Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
