// Package metrics exports reconciler flush statistics to Prometheus.
//
// A Collector implements vdom.FlushObserver:
//
//	c := metrics.New(metrics.WithNamespace("myapp"))
//	r := vdom.New(doc, vdom.WithObserver(c))
//
// Metrics collected:
//   - lazydom_flushes_total: Counter of flushes by result (applied, skipped)
//   - lazydom_flush_duration_seconds: Histogram of flush duration
//   - lazydom_elements_flushed_total: Counter of queued elements processed
//   - lazydom_nodes_created_total: Counter of rendered nodes created
//   - lazydom_dom_operations_total: Counter of structural operations by op
//   - lazydom_queue_length: Gauge of elements left for the next flush
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
