// Package compiler implements the three-pass DAG Compiler (spec.md §4.2):
// structural validation, reachability checking, and edge assignment with
// schema propagation. It turns a decoded node map into an immutable Plan
// the Graph Executor instantiates.
package compiler

import (
	"github.com/colexec/colexec/pkg/dag"
	"github.com/colexec/colexec/pkg/types"
)

// Plan is the Compiler's output: the node map (now carrying populated
// InEdges/OutEdges), the numbered edges with their propagated schemas, and
// the topological order used to produce them.
type Plan struct {
	Nodes map[string]*types.NodeDescriptor
	Edges []*types.Edge
	Order []string
}

// Edge returns the edge with the given id. Edge ids are dense and equal to
// their index in Plan.Edges.
func (p *Plan) Edge(id int) *types.Edge {
	if id < 0 || id >= len(p.Edges) {
		return nil
	}
	return p.Edges[id]
}

// Compile runs all three passes over nodes and returns the compiled Plan.
// nodes is consumed in place: InEdges/OutEdges are populated on each
// NodeDescriptor and _input/_output's IterInfo.Kind is normalized to the
// implicit IterInput/IterOutput kinds (spec.md §3: "never named directly in
// iter_info" — identity comes from the reserved node name, not the decoded
// iter_info.type, so whatever kind the wire format declared for these two
// nodes is overwritten here).
func Compile(nodes map[string]*types.NodeDescriptor) (*Plan, error) {
	d := dag.New(nodes)

	if err := d.ValidateBoundaries(); err != nil {
		return nil, err
	}

	order, err := d.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, ErrEmptyDAG
	}
	if order[0] != types.InputNodeName || order[len(order)-1] != types.OutputNodeName {
		return nil, ErrNoValidSourceSink
	}

	nodes[types.InputNodeName].IterInfo.Kind = types.IterInput
	nodes[types.OutputNodeName].IterInfo.Kind = types.IterOutput

	if err := validateReachability(nodes, order); err != nil {
		return nil, err
	}

	edges, err := assignEdges(nodes, order)
	if err != nil {
		return nil, err
	}

	return &Plan{Nodes: nodes, Edges: edges, Order: order}, nil
}
