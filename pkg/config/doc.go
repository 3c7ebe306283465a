// Package config centralizes graph executor configuration: execution
// timeouts, queue sizing, worker pool multiplier, resource ceilings, and
// window defaults.
//
// # Basic Usage
//
//	cfg := config.Default()
//	ex, err := executor.New(plan, operator.NewAdapter(nil), executor.WithConfig(cfg))
//
// Development and Production return variants tuned for local iteration and
// unattended execution respectively; Validate reports the first invalid
// field.
package config
