package runner

import "errors"

// Sentinel errors for NodeRunner construction and execution.
var (
	ErrUnknownIterKind  = errors.New("runner: unknown iteration kind")
	ErrNoOperator       = errors.New("runner: node requires an operator but none was built")
	ErrFilterNotBoolean = errors.New("runner: filter predicate did not return a boolean")
	ErrMissingTimestamp = errors.New("runner: time_window row missing timestamp column")
	ErrBadTimestampType = errors.New("runner: time_window timestamp column is not an int64")
)
