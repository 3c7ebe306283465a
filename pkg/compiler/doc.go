// Package compiler implements the three-pass DAG Compiler (spec.md §4.2):
//
//  1. Structural validation: topological order via pkg/dag, requiring the
//     order to begin with _input and end with _output.
//  2. Reachability: every node's declared inputs must be covered by the
//     union of its ancestors' outputs.
//  3. Edge assignment: numbers edges in topological/declared-successor
//     order, computes each edge's carried column set via a forward DFS
//     from the successor (§4.3), and propagates each column's SchemaEntry
//     (§4.4).
//
// The result is a Plan: the node map with InEdges/OutEdges populated, plus
// the numbered Edges carrying their schemas — immutable inputs to
// pkg/executor.
package compiler
