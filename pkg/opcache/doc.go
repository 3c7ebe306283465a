// Package opcache provides the shared operator instance cache used by
// pkg/operator's Resolver implementations: a process-wide, reference-counted
// map keyed by (operator ref, init args, tag) with per-key serialized
// construction, as required by spec.md §5's "Shared resources" note.
//
// opcache has no knowledge of operators or NodeDescriptors; it stores and
// ref-counts opaque interface{} instances under caller-supplied keys, built
// from Key or from any stable string identity the caller already has.
package opcache
