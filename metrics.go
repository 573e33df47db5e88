package equart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "equart"

// Metrics holds the Prometheus collectors of one Manager and its workers.
// They are observability only and never influence rendering.
//
// All operations are thread-safe.
type Metrics struct {
	// PixelRate is the scanline throughput of each worker in pixels per
	// second, sampled about once a second.
	// Labels: worker
	PixelRate *prometheus.GaugeVec

	// Depth is the refinement depth each worker has reached.
	// Labels: worker
	Depth *prometheus.GaugeVec

	// Snapshots counts snapshot deliveries by outcome.
	// Labels: worker, result (sent, dropped)
	Snapshots *prometheus.CounterVec

	// Requests counts snapshot requests issued by the manager.
	// Labels: result (sent, dropped)
	Requests *prometheus.CounterVec

	// ActiveWorkers is the number of workers still on the roster.
	ActiveWorkers prometheus.Gauge

	// ReflowSamples counts samples handled by resizes.
	// Labels: outcome (moved, dropped)
	ReflowSamples *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered but usable.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PixelRate: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "worker_pixels_per_second",
			Help:      "Scanline throughput of each render worker",
		}, []string{"worker"}),
		Depth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "worker_depth",
			Help:      "Refinement depth reached by each render worker",
		}, []string{"worker"}),
		Snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "snapshots_total",
			Help:      "Frame snapshots by worker and delivery result",
		}, []string{"worker", "result"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "snapshot_requests_total",
			Help:      "Snapshot requests issued by the manager by result",
		}, []string{"result"}),
		ActiveWorkers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_workers",
			Help:      "Render workers still on the roster",
		}),
		ReflowSamples: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reflow_samples_total",
			Help:      "Samples handled by resizes by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeReflow(st ReflowStats) {
	m.ReflowSamples.WithLabelValues("moved").Add(float64(st.Moved))
	m.ReflowSamples.WithLabelValues("dropped").Add(float64(st.Dropped))
}
