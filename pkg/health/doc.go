// Package health provides health check and readiness probe functionality
// for a running colexec process: liveness (is the process up), readiness
// (can it accept a DAG to compile and execute), and checks.go's
// colexec-specific probes over the process-wide operator cache
// (pkg/opcache).
package health
