package compiler

import "github.com/colexec/colexec/pkg/types"

// propagateSchema implements §4.4 for a new edge produced by node: for each
// carried column c, merge the "ahead" schemas across node's incoming
// edges (largest count wins per column), force map semantics for any c not
// in node's declared outputs, and derive the resulting SchemaEntry from
// kindToType.
func propagateSchema(node *types.NodeDescriptor, carried map[string]bool, edges []*types.Edge) (map[string]types.SchemaEntry, error) {
	ahead := make(map[string]types.SchemaEntry)
	for _, eid := range node.InEdges {
		for col, entry := range edges[eid].Columns {
			if cur, ok := ahead[col]; !ok || entry.Count > cur.Count {
				ahead[col] = entry
			}
		}
	}

	outputs := make(map[string]bool, len(node.Outputs))
	for _, c := range node.Outputs {
		outputs[c] = true
	}

	result := make(map[string]types.SchemaEntry, len(carried))
	for c := range carried {
		inOutputs := outputs[c]

		kEff := node.IterInfo.Kind
		if !inOutputs {
			kEff = types.IterMap
		}

		aheadEntry, hasAhead := ahead[c]
		var inputType *types.ColumnType
		if hasAhead {
			t := aheadEntry.Type
			inputType = &t
		}

		resultType, err := kindToType(kEff, inputType)
		if err != nil {
			return nil, err
		}

		count := 1
		if hasAhead {
			count = aheadEntry.Count
			if inOutputs {
				count++
			}
		}

		result[c] = types.SchemaEntry{Name: c, Type: resultType, Count: count}
	}

	return result, nil
}

// kindToType implements the §4.4 table. flat_map/window/time_window always
// promote to QUEUE (an operator of these kinds turns one upstream element
// into many, so anything it produces must stream). map/filter/nop/concat
// preserve cardinality and therefore inherit the upstream type, defaulting
// to SCALAR when the column originates here (no ahead schema). nop and
// concat are grouped with map/filter because they are likewise
// cardinality-preserving pass-through kinds even though the written table
// only names map/filter explicitly — see DESIGN.md for this decision.
func kindToType(kind types.IterKind, inputType *types.ColumnType) (types.ColumnType, error) {
	switch kind {
	case types.IterFlatMap, types.IterWindow, types.IterTimeWindow:
		return types.ColumnQueue, nil
	case types.IterMap, types.IterFilter, types.IterNop, types.IterConcat, types.IterInput:
		if inputType == nil {
			return types.ColumnScalar, nil
		}
		return *inputType, nil
	default:
		return "", ErrUnknownIterationType(string(kind))
	}
}
