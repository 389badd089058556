// Package metrics provides observability hooks for chapter-zero runs.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so callers never check for nil. When the CLI
// is asked for a metrics textfile it swaps in a PrometheusRecorder backed by a
// private registry and writes the registry out with WriteTextfile once the run
// is over, in the format node_exporter's textfile collector reads.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	p := chapterzero.New(chapterzero.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
