// Package otel publishes engine counters through an OpenTelemetry meter.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter and a
// bucket gauge keyed by the "le" attribute for the authenticate latency
// histogram. A single callback reads the engine snapshot per collection.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
