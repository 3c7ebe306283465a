// Package operator implements the Operator Adapter: the thin boundary
// that normalizes a node's operator reference — hub, lambda, callable, or
// builtin — into a single invocable shape a NodeRunner can drive.
//
// # Operator Reference Flavors
//
//   - builtin: "nop" and "concat" resolve to an identity Callable without
//     consulting a Resolver.
//   - lambda: compiled once with github.com/expr-lang/expr and cached by
//     expression text; filter nodes compile with expr.AsBool(), every
//     other kind wraps its result under the node's declared output
//     column (or merges a returned map directly).
//   - callable: the node's OpInfo.Func/IterFunc are used as-is — an
//     in-process Go closure attached when the NodeDescriptor was built,
//     not something the wire format can express.
//   - hub: resolved through the Resolver interface, an external
//     collaborator (the operator registry/hub loader is out of scope for
//     this module per spec.md §1).
//
// # Thread Safety
//
// Adapter's program cache is not safe for concurrent Build calls from
// multiple goroutines; build all Operators during compilation before
// starting the worker pool.
package operator
