// Package dag provides structural DAG operations over NodeDescriptors:
// topological sorting, cycle detection, and successor/predecessor
// traversal. It implements Pass 1 of the Compiler (spec.md §4.2):
// structural validation of a decoded node set before schema propagation.
package dag

import (
	"github.com/colexec/colexec/pkg/types"
)

// DAG represents the node set of one compiled graph, keyed by node name,
// with adjacency derived from each node's declared NextNodes.
type DAG struct {
	nodes map[string]*types.NodeDescriptor
}

// New builds a DAG from decoded node descriptors.
func New(nodes map[string]*types.NodeDescriptor) *DAG {
	return &DAG{nodes: nodes}
}

// GetNode retrieves a node descriptor by name.
func (d *DAG) GetNode(name string) *types.NodeDescriptor {
	return d.nodes[name]
}

// Nodes returns every node descriptor in the DAG.
func (d *DAG) Nodes() map[string]*types.NodeDescriptor {
	return d.nodes
}

// TopologicalSort orders node names using Kahn's algorithm. The ordering is
// a prerequisite for schema propagation (Pass 3), which must visit
// producers before consumers. Ties are broken by name for deterministic
// output.
//
// Algorithm:
//  1. Compute in-degree (count of declared predecessors) for every node.
//  2. Seed the queue with zero in-degree nodes, sorted for determinism.
//  3. Dequeue, append to the order, decrement each successor's in-degree.
//  4. If fewer nodes were ordered than exist, the graph contains a cycle.
func (d *DAG) TopologicalSort() ([]string, error) {
	numNodes := len(d.nodes)
	if numNodes == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)

	for name := range d.nodes {
		inDegree[name] = 0
	}

	for name, node := range d.nodes {
		for _, next := range node.NextNodes {
			adjacency[name] = append(adjacency[name], next)
			inDegree[next]++
		}
	}

	var orphans []string
	for name, degree := range inDegree {
		if degree == 0 {
			orphans = append(orphans, name)
		}
	}
	insertionSort(orphans)

	queue := make([]string, numNodes)
	queueStart, queueEnd := 0, len(orphans)
	copy(queue, orphans)

	order := make([]string, 0, numNodes)
	for queueStart < queueEnd {
		current := queue[queueStart]
		queueStart++
		order = append(order, current)

		neighbors := adjacency[current]
		insertionSort(neighbors)
		for _, neighbor := range neighbors {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue[queueEnd] = neighbor
				queueEnd++
			}
		}
	}

	if len(order) != numNodes {
		return nil, ErrCycleDetected
	}

	return order, nil
}

func insertionSort(arr []string) {
	for i := 1; i < len(arr); i++ {
		key := arr[i]
		j := i - 1
		for j >= 0 && arr[j] > key {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = key
	}
}

// GetSuccessors returns the declared next-node names for a node.
func (d *DAG) GetSuccessors(name string) []string {
	node := d.nodes[name]
	if node == nil {
		return nil
	}
	return node.NextNodes
}

// GetPredecessors returns every node that declares name in its NextNodes.
func (d *DAG) GetPredecessors(name string) []string {
	var preds []string
	for candidate, node := range d.nodes {
		for _, next := range node.NextNodes {
			if next == name {
				preds = append(preds, candidate)
				break
			}
		}
	}
	insertionSort(preds)
	return preds
}

// DetectCycles reports whether the DAG contains a cycle.
func (d *DAG) DetectCycles() error {
	_, err := d.TopologicalSort()
	return err
}

// ValidateBoundaries enforces spec.md §4.1: exactly one _input node with no
// predecessors and exactly one _output node with no successors. It does not
// check that other nodes are reachable from _input or can reach _output.
func (d *DAG) ValidateBoundaries() error {
	input, hasInput := d.nodes[types.InputNodeName]
	output, hasOutput := d.nodes[types.OutputNodeName]
	if !hasInput {
		return ErrMissingInputNode
	}
	if !hasOutput {
		return ErrMissingOutputNode
	}
	if len(d.GetPredecessors(types.InputNodeName)) > 0 {
		return ErrInputHasPredecessors
	}
	if len(output.NextNodes) > 0 {
		return ErrOutputHasSuccessors
	}
	_ = input
	return nil
}
