package prometheus

import (
	"net/http"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const auditDroppedName = "learnhub_audit_dropped_total"

type metricsSource interface {
	MetricsSnapshot() learnhub.MetricsSnapshot
	AuditDropped() uint64
}

// Collector adapts engine counters to a prometheus.Collector. Values are read
// from the engine on every scrape, so nothing is double counted.
type Collector struct {
	source       metricsSource
	counters     map[learnhub.MetricID]*prometheus.Desc
	histograms   map[learnhub.MetricID]*prometheus.Desc
	auditDropped *prometheus.Desc
	bounds       []float64
}

// NewCollector creates a collector reading from engine.
func NewCollector(engine *learnhub.Engine) *Collector {
	return NewCollectorFromSource(engine)
}

// NewCollectorFromSource creates a collector from any snapshot source.
func NewCollectorFromSource(source metricsSource) *Collector {
	c := &Collector{
		source:     source,
		counters:   make(map[learnhub.MetricID]*prometheus.Desc, len(internaldefs.CounterDefs)),
		histograms: make(map[learnhub.MetricID]*prometheus.Desc, len(internaldefs.HistogramDefs)),
		auditDropped: prometheus.NewDesc(
			auditDroppedName,
			"Dropped audit events due to dispatcher backpressure.",
			nil, nil,
		),
		bounds: internaldefs.HistogramBounds(),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters[def.ID] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms[def.ID] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, def := range internaldefs.CounterDefs {
		ch <- c.counters[def.ID]
	}
	for _, def := range internaldefs.HistogramDefs {
		ch <- c.histograms[def.ID]
	}
	ch <- c.auditDropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	for _, def := range internaldefs.CounterDefs {
		ch <- prometheus.MustNewConstMetric(c.counters[def.ID], prometheus.CounterValue, float64(snapshot.Counters[def.ID]))
	}

	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(c.bounds))
		for i, bound := range c.bounds {
			buckets[bound] = cumulative[i]
		}
		// Bucket counts are kept without a running sum.
		ch <- prometheus.MustNewConstHistogram(c.histograms[def.ID], cumulative[len(cumulative)-1], 0, buckets)
	}

	ch <- prometheus.MustNewConstMetric(c.auditDropped, prometheus.CounterValue, float64(c.source.AuditDropped()))
}

// Handler serves the engine metrics from a dedicated registry.
func Handler(engine *learnhub.Engine) http.Handler {
	return HandlerFromSource(engine)
}

// HandlerFromSource serves metrics read from source. extra collectors, such
// as the Go runtime collector, are registered alongside it.
func HandlerFromSource(source metricsSource, extra ...prometheus.Collector) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollectorFromSource(source))
	for _, c := range extra {
		registry.MustRegister(c)
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
