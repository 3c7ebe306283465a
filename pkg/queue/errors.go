package queue

import "errors"

// Sentinel errors for TypedQueue operations.
var (
	// ErrQueueSealed is returned by Put once Seal has been called; treated
	// as a programming error and fatal to the offending runner (spec.md §7
	// "Queue misuse").
	ErrQueueSealed = errors.New("typed queue: put after seal")
)
