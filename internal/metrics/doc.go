// Package metrics exports tool run and report statistics in the Prometheus
// text format so CI jobs can hand them to a node_exporter textfile collector.
package metrics
