package compiler

import "github.com/colexec/colexec/pkg/types"

// assignEdges implements Pass 3 (spec.md §4.2): numbers edges starting at
// 0 in topological-node order, declared-successor order within a node, and
// for each attaches a used-column set (§4.3) and a propagated schema
// (§4.4). _output.OutEdges is set equal to _output.InEdges once every edge
// is assigned.
//
// _input gets one additional edge beyond those produced by the main loop:
// a dedicated entry edge, appended last so it never disturbs the ids of
// the "real" node-to-node edges, attached only to _input.InEdges. Without
// it _input.InEdges stays empty forever (nothing ever names _input as a
// successor), leaving the Graph Executor nothing to seed the caller's
// input row into and the inputRunner with no in-queue to read from.
func assignEdges(nodes map[string]*types.NodeDescriptor, order []string) ([]*types.Edge, error) {
	var edges []*types.Edge

	for _, name := range order {
		node := nodes[name]
		for _, succName := range node.NextNodes {
			remaining := make(map[string]bool, len(node.Outputs))
			for _, c := range node.Outputs {
				remaining[c] = true
			}
			for _, eid := range node.InEdges {
				for c := range edges[eid].Columns {
					remaining[c] = true
				}
			}

			// Edges sourced from _input carry the full input row
			// unconditionally, not the DFS-pruned used-column set: the
			// inputRunner fans the same row out to every one of _input's
			// out-queues regardless of how many downstream nodes actually
			// consume each column.
			var carried map[string]bool
			if name == types.InputNodeName {
				carried = remaining
			} else {
				carried = usedColumnDFS(nodes, succName, remaining)
			}
			if len(carried) == 0 {
				return nil, ErrEmptyEdgeColumns(name, succName)
			}

			schema, err := propagateSchema(node, carried, edges)
			if err != nil {
				return nil, err
			}

			edge := &types.Edge{
				ID:      len(edges),
				Source:  name,
				Target:  succName,
				Columns: schema,
			}
			edges = append(edges, edge)
			node.OutEdges = append(node.OutEdges, edge.ID)
			nodes[succName].InEdges = append(nodes[succName].InEdges, edge.ID)
		}
	}

	outputNode := nodes[types.OutputNodeName]
	outputNode.OutEdges = append([]int(nil), outputNode.InEdges...)

	inputNode := nodes[types.InputNodeName]
	entrySchema := make(map[string]types.SchemaEntry, len(inputNode.Outputs))
	for _, c := range inputNode.Outputs {
		entrySchema[c] = types.SchemaEntry{Name: c, Type: types.ColumnScalar, Count: 1}
	}
	entryEdge := &types.Edge{ID: len(edges), Target: types.InputNodeName, Columns: entrySchema}
	edges = append(edges, entryEdge)
	inputNode.InEdges = append(inputNode.InEdges, entryEdge.ID)

	return edges, nil
}

// usedColumnDFS implements §4.3: a DFS from start, following NextNodes in
// declared order (pushed reversed so the first declared successor is
// visited first), collecting for each visited node V the intersection of
// inputs(V) with remaining and removing those columns from remaining.
// Terminates early once remaining is empty; each node is visited once.
func usedColumnDFS(nodes map[string]*types.NodeDescriptor, start string, remaining map[string]bool) map[string]bool {
	collected := make(map[string]bool)
	visited := make(map[string]bool)
	stack := []string{start}

	for len(stack) > 0 && len(remaining) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[v] {
			continue
		}
		visited[v] = true

		node := nodes[v]
		for _, in := range node.Inputs {
			if remaining[in] {
				collected[in] = true
				delete(remaining, in)
			}
		}
		if len(remaining) == 0 {
			break
		}

		for i := len(node.NextNodes) - 1; i >= 0; i-- {
			next := node.NextNodes[i]
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	return collected
}
