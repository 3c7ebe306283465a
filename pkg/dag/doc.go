// Package dag provides graph algorithms over decoded NodeDescriptors:
// topological sort, cycle detection, and predecessor/successor traversal.
// It implements the structural-validation pass of the Compiler (spec.md
// §4.2 Pass 1), independent of schema propagation.
//
// # Key Algorithms
//
// TopologicalSort implements Kahn's algorithm with deterministic tie-
// breaking by node name, ensuring producers are always ordered before
// their consumers so Pass 3 schema propagation can run in a single forward
// sweep.
//
// ValidateBoundaries enforces the reserved _input/_output node
// constraints: _input must have no predecessors, _output must have no
// successors.
//
// # Thread Safety
//
// DAG is built once from a decoded node set and is read-only thereafter;
// concurrent reads require no synchronization.
package dag
