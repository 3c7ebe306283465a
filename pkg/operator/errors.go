package operator

import "errors"

// Sentinel errors for operator resolution.
var (
	ErrNoResolver       = errors.New("operator: hub reference requires a Resolver")
	ErrMissingOperator  = errors.New("operator: node has no operator reference to build")
	ErrCallableEmpty    = errors.New("operator: callable reference has no Func or IterFunc")
	ErrFilterNotBoolean = errors.New("operator: filter lambda did not return a boolean")
)
