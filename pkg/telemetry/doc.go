// Package telemetry provides Prometheus metrics and OpenTelemetry trace
// bootstrap for the annotation engine. The pure core packages emit nothing;
// the engine service layer records here.
package telemetry
