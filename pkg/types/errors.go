package types

import "fmt"

// ErrMissingField creates a structural error for a missing required
// descriptor attribute (spec.md §4.1 / §7 Structural errors).
func ErrMissingField(nodeName string, fieldNames []string) error {
	return fmt.Errorf("node %q: missing required fields: %v", nodeName, fieldNames)
}

// ErrUnknownIterationKind creates a structural error for an iteration kind
// that is not one of map, flat_map, filter, window, time_window, concat, nop.
func ErrUnknownIterationKind(nodeName string, kind IterKind) error {
	return fmt.Errorf("node %q: unknown iteration kind: %q", nodeName, kind)
}

// ErrUnknownOperatorKind creates a structural error for an op_info.type that
// is not one of hub, lambda, callable, builtin.
func ErrUnknownOperatorKind(nodeName string, kind OperatorKind) error {
	return fmt.Errorf("node %q: unknown operator kind: %q", nodeName, kind)
}

// ErrUnknownBuiltin creates a structural error for a builtin operator name
// that is not nop or concat.
func ErrUnknownBuiltin(nodeName string, name string) error {
	return fmt.Errorf("node %q: unknown builtin operator: %q", nodeName, name)
}
