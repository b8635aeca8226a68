// Package observability carries events out of a state tree to logs and
// metrics.
//
// Containers, state machines, scoped views and the inspector report what they
// do as Events. An Observer decides what to do with them: SlogObserver writes
// structured logs, PrometheusObserver counts them, MultiObserver fans out and
// LevelFilter drops the noise. NoOpObserver is the default.
//
// Level values follow OpenTelemetry SeverityNumber ranges so events can be
// forwarded to an OTel collector without translation.
//
// # Registry
//
// Observers are registered by name so configuration files can refer to them:
//
//	observability.RegisterObserver("metrics", observability.NewPrometheusObserver(prometheus.DefaultRegisterer))
//	observer, err := observability.GetObserver("metrics")
//
// "noop" and "slog" are always available.
package observability
