package dag

import (
	"testing"

	"github.com/colexec/colexec/pkg/types"
)

func node(name string, next ...string) *types.NodeDescriptor {
	return &types.NodeDescriptor{Name: name, NextNodes: next}
}

func TestTopologicalSort(t *testing.T) {
	tests := []struct {
		name       string
		nodes      map[string]*types.NodeDescriptor
		wantOrder  []string
		wantErr    bool
		checkOrder bool
	}{
		{
			name: "linear chain",
			nodes: map[string]*types.NodeDescriptor{
				"a": node("a", "b"),
				"b": node("b", "c"),
				"c": node("c"),
			},
			wantOrder:  []string{"a", "b", "c"},
			checkOrder: true,
		},
		{
			name: "diamond shape",
			nodes: map[string]*types.NodeDescriptor{
				"a": node("a", "b", "c"),
				"b": node("b", "d"),
				"c": node("c", "d"),
				"d": node("d"),
			},
			checkOrder: false,
		},
		{
			name:       "single node",
			nodes:      map[string]*types.NodeDescriptor{"a": node("a")},
			wantOrder:  []string{"a"},
			checkOrder: true,
		},
		{
			name:  "empty dag",
			nodes: map[string]*types.NodeDescriptor{},
		},
		{
			name: "cycle",
			nodes: map[string]*types.NodeDescriptor{
				"a": node("a", "b"),
				"b": node("b", "a"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.nodes)
			order, err := d.TopologicalSort()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(order) != len(tt.nodes) {
				t.Fatalf("expected %d nodes in order, got %d", len(tt.nodes), len(order))
			}
			if tt.checkOrder {
				if len(order) != len(tt.wantOrder) {
					t.Fatalf("expected order %v, got %v", tt.wantOrder, order)
				}
				for i, name := range tt.wantOrder {
					if order[i] != name {
						t.Errorf("expected order[%d]=%s, got %s", i, name, order[i])
					}
				}
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	d := New(map[string]*types.NodeDescriptor{
		"a": node("a", "b"),
		"b": node("b", "c"),
		"c": node("c", "a"),
	})
	if err := d.DetectCycles(); err == nil {
		t.Fatal("expected cycle to be detected")
	}
}

func TestGetSuccessorsAndPredecessors(t *testing.T) {
	d := New(map[string]*types.NodeDescriptor{
		"a": node("a", "b", "c"),
		"b": node("b", "d"),
		"c": node("c", "d"),
		"d": node("d"),
	})

	succ := d.GetSuccessors("a")
	if len(succ) != 2 {
		t.Fatalf("expected 2 successors for a, got %d", len(succ))
	}

	pred := d.GetPredecessors("d")
	if len(pred) != 2 || pred[0] != "b" || pred[1] != "c" {
		t.Errorf("expected predecessors [b c] for d, got %v", pred)
	}
}

func TestValidateBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		nodes   map[string]*types.NodeDescriptor
		wantErr error
	}{
		{
			name: "valid boundaries",
			nodes: map[string]*types.NodeDescriptor{
				types.InputNodeName:  node(types.InputNodeName, "n1"),
				"n1":                 node("n1", types.OutputNodeName),
				types.OutputNodeName: node(types.OutputNodeName),
			},
		},
		{
			name: "missing input",
			nodes: map[string]*types.NodeDescriptor{
				types.OutputNodeName: node(types.OutputNodeName),
			},
			wantErr: ErrMissingInputNode,
		},
		{
			name: "missing output",
			nodes: map[string]*types.NodeDescriptor{
				types.InputNodeName: node(types.InputNodeName),
			},
			wantErr: ErrMissingOutputNode,
		},
		{
			name: "input has predecessors",
			nodes: map[string]*types.NodeDescriptor{
				types.InputNodeName:  node(types.InputNodeName),
				"n1":                 node("n1", types.InputNodeName),
				types.OutputNodeName: node(types.OutputNodeName),
			},
			wantErr: ErrInputHasPredecessors,
		},
		{
			name: "output has successors",
			nodes: map[string]*types.NodeDescriptor{
				types.InputNodeName:  node(types.InputNodeName),
				types.OutputNodeName: node(types.OutputNodeName, "n1"),
				"n1":                 node("n1"),
			},
			wantErr: ErrOutputHasSuccessors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.nodes).ValidateBoundaries()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
