package logging

import "errors"

// Sentinel errors for logging operations.
var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidOutput    = errors.New("invalid log output")

	ErrLogWriteFailed       = errors.New("failed to write log")
	ErrLoggerNotInitialized = errors.New("logger not initialized")
	ErrLogFlushFailed       = errors.New("failed to flush log buffer")
)
