// Package logging provides structured logging for the graph executor.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{Level: "info"})
//	logger.WithRunID(runID).WithNodeName("normalize").Info("node started")
//
// # Context Integration
//
// Attach a logger to a context with WithContext and retrieve it with
// FromContext; callers that receive no logger fall back to a default one
// rather than a nil check.
//
// # Thread Safety
//
// All logger operations are safe for concurrent use across node runner
// goroutines.
package logging
