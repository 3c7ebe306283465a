// Package operator implements the Operator Adapter (spec.md §4.1, §9): the
// thin boundary that normalizes one of four operator reference flavors —
// hub reference, lambda expression, arbitrary Go callable, or builtin name
// — into the single invocable shape a NodeRunner drives.
//
// Lambda expressions are evaluated with github.com/expr-lang/expr, grounded
// on the teacher's expression-engine adapter; hub references are resolved
// through the narrow Resolver interface since the hub loader itself is an
// external collaborator out of scope for this module.
package operator

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/colexec/colexec/pkg/types"
)

// Resolver materializes a hub-referenced operator: a name plus init args
// and kwargs, resolved into a Callable or IterableCallable by an external
// registry this module never sees directly.
type Resolver interface {
	ResolveCallable(ref string, initArgs []interface{}, initKwargs map[string]interface{}) (types.Callable, error)
	ResolveIterable(ref string, initArgs []interface{}, initKwargs map[string]interface{}) (types.IterableCallable, error)
}

// Operator is the materialized, invokable form of one node's op_info. Which
// fields are set depends on the op_info flavor: builtins set Map and IterMap
// (both identity); lambdas set Filter on filter nodes and Map otherwise;
// callables set whichever of Map and IterMap were supplied, plus a Filter
// derived from Map on filter nodes; hub references set IterMap on flat_map
// nodes and Map otherwise, plus a Filter derived from Map on filter nodes.
type Operator struct {
	Map     types.Callable
	Filter  func(row types.Row) (bool, error)
	IterMap types.IterableCallable
}

// Adapter builds Operators from NodeDescriptors, caching compiled lambda
// expression programs across nodes that share expression text.
type Adapter struct {
	resolver     Resolver
	programCache map[string]*vm.Program
}

// NewAdapter creates an Adapter. resolver may be nil if the DAG contains no
// hub-referenced operators.
func NewAdapter(resolver Resolver) *Adapter {
	return &Adapter{
		resolver:     resolver,
		programCache: make(map[string]*vm.Program),
	}
}

// Build resolves node.OpInfo into an Operator appropriate for node's
// iteration kind. _input and _output nodes have no OpInfo and are not
// valid inputs to Build.
func (a *Adapter) Build(node *types.NodeDescriptor) (*Operator, error) {
	if node.OpInfo == nil {
		return nil, fmt.Errorf("node %q: %w", node.Name, ErrMissingOperator)
	}

	switch node.OpInfo.Kind {
	case types.OperatorBuiltin:
		return a.buildBuiltin(node)
	case types.OperatorLambda:
		return a.buildLambda(node)
	case types.OperatorCallable:
		return a.buildCallable(node)
	case types.OperatorHub:
		return a.buildHub(node)
	default:
		return nil, types.ErrUnknownOperatorKind(node.Name, node.OpInfo.Kind)
	}
}

func (a *Adapter) buildBuiltin(node *types.NodeDescriptor) (*Operator, error) {
	switch node.OpInfo.Operator {
	case types.BuiltinNop, types.BuiltinConcat:
		identity := func(row types.Row) (types.Row, error) { return row, nil }
		return &Operator{Map: identity, IterMap: func(row types.Row) ([]types.Row, error) {
			return []types.Row{row}, nil
		}}, nil
	default:
		return nil, types.ErrUnknownBuiltin(node.Name, node.OpInfo.Operator)
	}
}

func (a *Adapter) buildCallable(node *types.NodeDescriptor) (*Operator, error) {
	op := &Operator{Map: node.OpInfo.Func, IterMap: node.OpInfo.IterFunc}
	if node.IterInfo.Kind == types.IterFilter && op.Map != nil {
		op.Filter = func(row types.Row) (bool, error) {
			out, err := op.Map(row)
			if err != nil {
				return false, err
			}
			return rowTruthy(out), nil
		}
	}
	if op.Map == nil && op.IterMap == nil {
		return nil, fmt.Errorf("node %q: %w", node.Name, ErrCallableEmpty)
	}
	return op, nil
}

func (a *Adapter) buildHub(node *types.NodeDescriptor) (*Operator, error) {
	if a.resolver == nil {
		return nil, fmt.Errorf("node %q: hub operator %q: %w", node.Name, node.OpInfo.Operator, ErrNoResolver)
	}

	if node.IterInfo.Kind == types.IterFlatMap {
		iterFn, err := a.resolver.ResolveIterable(node.OpInfo.Operator, node.OpInfo.InitArgs, node.OpInfo.InitKwargs)
		if err != nil {
			return nil, fmt.Errorf("node %q: resolve hub operator %q: %w", node.Name, node.OpInfo.Operator, err)
		}
		return &Operator{IterMap: iterFn}, nil
	}

	mapFn, err := a.resolver.ResolveCallable(node.OpInfo.Operator, node.OpInfo.InitArgs, node.OpInfo.InitKwargs)
	if err != nil {
		return nil, fmt.Errorf("node %q: resolve hub operator %q: %w", node.Name, node.OpInfo.Operator, err)
	}
	op := &Operator{Map: mapFn}
	if node.IterInfo.Kind == types.IterFilter {
		op.Filter = func(row types.Row) (bool, error) {
			out, err := mapFn(row)
			if err != nil {
				return false, err
			}
			return rowTruthy(out), nil
		}
	}
	return op, nil
}

// rowTruthy extracts a boolean predicate result from a Row returned by a
// Callable used as a filter: the value under the reserved "result" key if
// it is a bool, otherwise the first bool met while ranging over the row (in
// map iteration order), or false if the row holds no bool.
func rowTruthy(row types.Row) bool {
	if v, ok := row["result"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	for _, v := range row {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
