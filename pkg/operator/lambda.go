package operator

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/colexec/colexec/pkg/types"
)

// buildLambda compiles node.OpInfo.Operator as an expr-lang expression,
// binding every input column by name into the evaluation environment.
// filter nodes compile with expr.AsBool(); every other kind compiles as a
// free-form expression and its result is wrapped under the node's single
// declared output column.
func (a *Adapter) buildLambda(node *types.NodeDescriptor) (*Operator, error) {
	text := node.OpInfo.Operator

	if node.IterInfo.Kind == types.IterFilter {
		program, err := a.compile(text, true)
		if err != nil {
			return nil, fmt.Errorf("node %q: lambda filter: %w", node.Name, err)
		}
		filter := func(row types.Row) (bool, error) {
			out, err := expr.Run(program, lambdaEnv(row))
			if err != nil {
				return false, fmt.Errorf("node %q: lambda evaluation: %w", node.Name, err)
			}
			b, ok := out.(bool)
			if !ok {
				return false, fmt.Errorf("node %q: %w", node.Name, ErrFilterNotBoolean)
			}
			return b, nil
		}
		return &Operator{Filter: filter}, nil
	}

	program, err := a.compile(text, false)
	if err != nil {
		return nil, fmt.Errorf("node %q: lambda: %w", node.Name, err)
	}

	mapFn := func(row types.Row) (types.Row, error) {
		out, err := expr.Run(program, lambdaEnv(row))
		if err != nil {
			return nil, fmt.Errorf("node %q: lambda evaluation: %w", node.Name, err)
		}
		return wrapLambdaResult(node, out), nil
	}
	return &Operator{Map: mapFn}, nil
}

func (a *Adapter) compile(text string, boolResult bool) (*vm.Program, error) {
	key := text
	if boolResult {
		key = "bool:" + text
	}
	if cached, ok := a.programCache[key]; ok {
		return cached, nil
	}

	opts := []expr.Option{expr.AllowUndefinedVariables()}
	if boolResult {
		opts = append(opts, expr.AsBool())
	}
	program, err := expr.Compile(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", text, err)
	}
	a.programCache[key] = program
	return program, nil
}

// lambdaEnv exposes every row column directly by name plus the whole row
// under "row", matching the teacher's expression adapter's practice of
// binding both individual fields and the aggregate input.
func lambdaEnv(row types.Row) map[string]interface{} {
	env := make(map[string]interface{}, len(row)+1)
	for k, v := range row {
		env[k] = v
	}
	env["row"] = map[string]interface{}(row)
	return env
}

// wrapLambdaResult maps a lambda's raw return value onto the node's
// declared outputs: if the expression already returned a map, it is used
// as-is (merged with any unchanged input columns); otherwise the value is
// assigned to the node's sole declared output column.
func wrapLambdaResult(node *types.NodeDescriptor, out interface{}) types.Row {
	if m, ok := out.(map[string]interface{}); ok {
		return types.Row(m)
	}
	row := make(types.Row, len(node.Outputs))
	if len(node.Outputs) > 0 {
		row[node.Outputs[0]] = out
	}
	return row
}
