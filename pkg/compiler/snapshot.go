package compiler

import "github.com/colexec/colexec/pkg/types"

// Snapshot is a JSON-able debug view of a compiled Plan: every node's
// edges and every edge's propagated schema, for operator tooling and
// tests. Grounded on the teacher's pkg/engine.Snapshot (workflow state
// dump for debugging/resume) but scoped to the compiled plan only — this
// module has no persistence or resume Non-goal to satisfy, just an
// inspectable view of what the Compiler decided.
type Snapshot struct {
	Order []string             `json:"order"`
	Nodes []NodeSnapshot       `json:"nodes"`
	Edges []EdgeSnapshot       `json:"edges"`
}

// NodeSnapshot summarizes one compiled node.
type NodeSnapshot struct {
	Name     string       `json:"name"`
	Inputs   []string     `json:"inputs"`
	Outputs  []string     `json:"outputs"`
	IterKind types.IterKind `json:"iter_kind"`
	InEdges  []int        `json:"in_edges"`
	OutEdges []int        `json:"out_edges"`
}

// EdgeSnapshot summarizes one compiled edge's schema.
type EdgeSnapshot struct {
	ID      int                        `json:"id"`
	Source  string                     `json:"source"`
	Target  string                     `json:"target"`
	Columns map[string]types.SchemaEntry `json:"columns"`
}

// Snapshot builds a JSON-able view of the compiled Plan.
func (p *Plan) Snapshot() Snapshot {
	snap := Snapshot{Order: p.Order}

	for _, name := range p.Order {
		node := p.Nodes[name]
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			Name:     node.Name,
			Inputs:   node.Inputs,
			Outputs:  node.Outputs,
			IterKind: node.IterInfo.Kind,
			InEdges:  node.InEdges,
			OutEdges: node.OutEdges,
		})
	}

	for _, edge := range p.Edges {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			ID:      edge.ID,
			Source:  edge.Source,
			Target:  edge.Target,
			Columns: edge.Columns,
		})
	}

	return snap
}
