package compiler

import "github.com/colexec/colexec/pkg/types"

// validateReachability implements Pass 2 (spec.md §4.2): for each node N in
// topological order, accumulate available(N) = _input.inputs ∪ union over
// predecessors P of (outputs(P) ∪ available(P)), then assert
// inputs(N) ⊆ available(N). Invariant 4 (_input/_output inputs==outputs) is
// checked up front since it does not depend on traversal order.
func validateReachability(nodes map[string]*types.NodeDescriptor, order []string) error {
	inputNode := nodes[types.InputNodeName]
	if !sameSet(inputNode.Inputs, inputNode.Outputs) {
		return ErrInputBoundaryMismatch
	}
	outputNode := nodes[types.OutputNodeName]
	if !sameSet(outputNode.Inputs, outputNode.Outputs) {
		return ErrOutputBoundaryMismatch
	}

	predecessors := predecessorMap(nodes)
	available := make(map[string]map[string]bool, len(nodes))

	for _, name := range order {
		node := nodes[name]
		avail := make(map[string]bool)
		for _, c := range inputNode.Inputs {
			avail[c] = true
		}
		for _, pred := range predecessors[name] {
			for _, c := range nodes[pred].Outputs {
				avail[c] = true
			}
			for c := range available[pred] {
				avail[c] = true
			}
		}
		available[name] = avail

		var missing []string
		for _, c := range node.Inputs {
			if !avail[c] {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			return ErrUndeclaredColumns(name, missing)
		}
	}

	return nil
}

// predecessorMap returns, for every node, the names of nodes that declare
// it in their NextNodes.
func predecessorMap(nodes map[string]*types.NodeDescriptor) map[string][]string {
	preds := make(map[string][]string, len(nodes))
	for name, node := range nodes {
		for _, next := range node.NextNodes {
			preds[next] = append(preds[next], name)
		}
	}
	return preds
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}
