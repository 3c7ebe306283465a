// Package queue implements TypedQueue, the bounded, sealable,
// multi-producer/multi-consumer row buffer that carries data across one
// compiled edge.
//
// # Contracts
//
//   - Put blocks when the queue is full; fails once the queue is sealed.
//   - Get blocks when empty; returns end-of-stream once sealed and
//     drained.
//   - Seal is idempotent.
//   - Column metadata is immutable after construction. SCALAR columns are
//     written at most once and thereafter broadcast onto every row Get
//     returns.
//
// # Thread Safety
//
// TypedQueue is safe for concurrent Put/Get/Seal from multiple producer
// and consumer goroutines; it is the sole synchronization point between
// node runners.
package queue
