// Package prometheus exposes engine counters and the authenticate latency
// histogram through a client_golang collector.
//
// Mount [Handler] on the admin listener:
//
//	mux.Handle("/metrics", prometheus.Handler(engine))
package prometheus
