// Package metrics defines the sinks that record scheduling runs. Sinks such
// as PromSink and InfluxSink live in infra/metrics and register themselves
// with the factory so they can be selected from configuration; several
// configured sinks are combined into a MultiSink.
package metrics
