// Package types provides shared type definitions for the columnar DAG engine.
//
// # Overview
//
// This package contains the core data structures used across the compiler,
// queue, operator, runner, and executor packages. It exists to avoid
// circular dependencies: every other package depends on types, and types
// depends on nothing in this module.
//
// # Key Components
//
// NodeDescriptor: the immutable per-node declaration produced by decoding a
// DAG description (name, input/output column tuples, iteration kind,
// operator reference, config, declared successors).
//
// SchemaEntry / Edge: the per-(edge, column) type (SCALAR or QUEUE) and
// fan-in count the Compiler derives, and the numbered edge that carries
// them.
//
// Row: the unit of data exchanged on every edge — a mapping from column
// name to value.
//
// # Thread Safety
//
// NodeDescriptor, Edge, and SchemaEntry are produced once by the Compiler
// and are treated as immutable for the remainder of a DAG's lifetime; no
// synchronization is required to read them concurrently. Row values
// crossing queue boundaries are owned by exactly one goroutine at a time.
package types
