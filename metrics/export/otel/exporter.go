package otel

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() learnhub.MetricsSnapshot
	AuditDropped() uint64
}

type counterBinding struct {
	id         learnhub.MetricID
	instrument metric.Int64ObservableCounter
}

// histogramBinding reports cumulative buckets on one gauge keyed by the "le"
// attribute, plus a total count.
type histogramBinding struct {
	id      learnhub.MetricID
	buckets metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
	le      [8]metric.ObserveOption
}

// Exporter publishes engine metrics through an OpenTelemetry meter.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []counterBinding
	histograms   []histogramBinding
	auditDropped metric.Int64ObservableCounter
}

// NewExporter binds engine metrics to meter.
func NewExporter(meter metric.Meter, engine *learnhub.Engine) (*Exporter, error) {
	if engine == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource binds any snapshot source to meter.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exp := &Exporter{source: source}
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+2*len(internaldefs.HistogramDefs)+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		exp.counters = append(exp.counters, counterBinding{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	bounds := internaldefs.HistogramBounds()
	for _, def := range internaldefs.HistogramDefs {
		b := histogramBinding{id: def.ID}
		var err error
		b.buckets, err = meter.Int64ObservableGauge(def.Name+"_bucket", metric.WithDescription(def.Help+" Cumulative bucket counts."))
		if err != nil {
			return nil, fmt.Errorf("create bucket gauge %s: %w", def.Name, err)
		}
		b.count, err = meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription(def.Help+" Sample count."))
		if err != nil {
			return nil, fmt.Errorf("create count gauge %s: %w", def.Name, err)
		}
		for i := range b.le {
			le := "+Inf"
			if i < len(bounds) {
				le = strconv.FormatFloat(bounds[i], 'g', -1, 64)
			}
			b.le[i] = metric.WithAttributes(attribute.String("le", le))
		}
		exp.histograms = append(exp.histograms, b)
		observables = append(observables, b.buckets, b.count)
	}

	var err error
	exp.auditDropped, err = meter.Int64ObservableCounter(
		"learnhub_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	observables = append(observables, exp.auditDropped)

	exp.registration, err = meter.RegisterCallback(exp.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return exp, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		o.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
	}
	for _, h := range e.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, v := range cumulative {
			o.ObserveInt64(h.buckets, int64(v), h.le[i])
		}
		o.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the callback. The meter keeps the instruments.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
