package types

import (
	"encoding/json"
	"fmt"
)

// DAGDescription is the raw wire shape accepted by the Compiler: a mapping
// from node name to its descriptor mapping (spec.md §6 "DAG description").
type DAGDescription map[string]json.RawMessage

// rawIterInfo mirrors the JSON shape of iter_info before it is resolved
// into an IterInfo.
type rawIterInfo struct {
	Type  IterKind        `json:"type"`
	Param json.RawMessage `json:"param"`
}

type rawOpInfo struct {
	Operator  string                 `json:"operator"`
	Type      OperatorKind           `json:"type"`
	InitArgs  []interface{}          `json:"init_args"`
	InitKws   map[string]interface{} `json:"init_kws"`
	Tag       string                 `json:"tag"`
}

type rawConfig struct {
	Parallel int `json:"parallel"`
}

// rawNode is the JSON shape shared by every descriptor entry; op_info and
// config are omitted for _input/_output.
type rawNode struct {
	Inputs    []string     `json:"inputs"`
	Outputs   []string     `json:"outputs"`
	IterInfo  *rawIterInfo `json:"iter_info"`
	OpInfo    *rawOpInfo   `json:"op_info"`
	Config    *rawConfig   `json:"config"`
	NextNodes []string     `json:"next_nodes"`
}

// DecodeNodes parses a DAGDescription into NodeDescriptors, keyed by name.
// It enforces spec.md §4.1: _input and _output require {inputs, outputs,
// iter_info}; every other node additionally requires {op_info,
// next_nodes}. config is optional on every node and Parallel defaults to
// 1. Missing keys fail with ErrMissingField naming the node and
// the missing attributes. Unknown iteration or operator kinds fail with the
// corresponding structural error.
func DecodeNodes(desc DAGDescription) (map[string]*NodeDescriptor, error) {
	nodes := make(map[string]*NodeDescriptor, len(desc))

	for name, raw := range desc {
		var rn rawNode
		if err := json.Unmarshal(raw, &rn); err != nil {
			return nil, fmt.Errorf("node %q: invalid descriptor: %w", name, err)
		}

		missing := missingFields(name, rn)
		if len(missing) > 0 {
			return nil, ErrMissingField(name, missing)
		}

		nd := &NodeDescriptor{
			Name:      name,
			Inputs:    rn.Inputs,
			Outputs:   rn.Outputs,
			NextNodes: rn.NextNodes,
		}

		iterInfo, err := decodeIterInfo(name, rn.IterInfo)
		if err != nil {
			return nil, err
		}
		nd.IterInfo = iterInfo

		if rn.Config != nil {
			nd.Config = NodeConfig{Parallel: rn.Config.Parallel}
		}
		if nd.Config.Parallel < 1 {
			nd.Config.Parallel = 1
		}

		if name != InputNodeName && name != OutputNodeName {
			opInfo, err := decodeOpInfo(name, rn.OpInfo)
			if err != nil {
				return nil, err
			}
			nd.OpInfo = opInfo
		}

		nodes[name] = nd
	}

	return nodes, nil
}

func missingFields(name string, rn rawNode) []string {
	var missing []string
	if rn.Inputs == nil {
		missing = append(missing, "inputs")
	}
	if rn.Outputs == nil {
		missing = append(missing, "outputs")
	}
	if rn.IterInfo == nil {
		missing = append(missing, "iter_info")
	}
	if name != InputNodeName && name != OutputNodeName {
		if rn.OpInfo == nil {
			missing = append(missing, "op_info")
		}
		if rn.NextNodes == nil {
			missing = append(missing, "next_nodes")
		}
	}
	return missing
}

func decodeIterInfo(nodeName string, raw *rawIterInfo) (IterInfo, error) {
	info := IterInfo{Kind: raw.Type}

	switch raw.Type {
	case IterMap, IterFilter, IterFlatMap, IterConcat, IterNop:
		// no further kind-specific decoding required beyond the param below
	case IterWindow:
		var p WindowParam
		if len(raw.Param) > 0 {
			if err := json.Unmarshal(raw.Param, &p); err != nil {
				return IterInfo{}, fmt.Errorf("node %q: invalid window param: %w", nodeName, err)
			}
		}
		info.Window = &p
	case IterTimeWindow:
		var p TimeWindowParam
		if len(raw.Param) > 0 {
			if err := json.Unmarshal(raw.Param, &p); err != nil {
				return IterInfo{}, fmt.Errorf("node %q: invalid time_window param: %w", nodeName, err)
			}
		}
		info.TimeWindow = &p
	default:
		return IterInfo{}, ErrUnknownIterationKind(nodeName, raw.Type)
	}

	if raw.Type == IterFilter && len(raw.Param) > 0 {
		var p FilterParam
		if err := json.Unmarshal(raw.Param, &p); err != nil {
			return IterInfo{}, fmt.Errorf("node %q: invalid filter param: %w", nodeName, err)
		}
		info.Filter = &p
	}

	return info, nil
}

func decodeOpInfo(nodeName string, raw *rawOpInfo) (*OpInfo, error) {
	op := &OpInfo{
		Kind:       raw.Type,
		Operator:   raw.Operator,
		InitArgs:   raw.InitArgs,
		InitKwargs: raw.InitKws,
		Tag:        raw.Tag,
	}
	if op.Tag == "" {
		op.Tag = "main"
	}

	switch raw.Type {
	case OperatorHub, OperatorLambda, OperatorCallable:
		// resolved downstream by pkg/operator; nothing further to validate here
	case OperatorBuiltin:
		if raw.Operator != BuiltinNop && raw.Operator != BuiltinConcat {
			return nil, ErrUnknownBuiltin(nodeName, raw.Operator)
		}
	default:
		return nil, ErrUnknownOperatorKind(nodeName, raw.Type)
	}

	return op, nil
}
