package runner

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/colexec/colexec/pkg/operator"
	"github.com/colexec/colexec/pkg/queue"
	"github.com/colexec/colexec/pkg/types"
)

func queueSchema(names ...string) map[string]types.SchemaEntry {
	m := make(map[string]types.SchemaEntry, len(names))
	for _, n := range names {
		m[n] = types.SchemaEntry{Name: n, Type: types.ColumnQueue}
	}
	return m
}

func drain(q *queue.TypedQueue) []types.Row {
	var rows []types.Row
	for {
		row, ok := q.Get()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

func runToCompletion(t *testing.T, r Runner) {
	t.Helper()
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := r.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.Status() != StatusFinished {
		t.Fatalf("expected StatusFinished, got %v (err=%v)", r.Status(), r.Err())
	}
}

func TestInputRunnerForwardsAndSeals(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out1 := queue.New(4, queueSchema("a"))
	out2 := queue.New(4, queueSchema("a"))

	in.Put(types.Row{"a": 1})
	in.Put(types.Row{"a": 2})
	in.Seal()

	node := &types.NodeDescriptor{Name: types.InputNodeName, IterInfo: types.IterInfo{Kind: types.IterInput}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out1, out2}, nil, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	if got := drain(out1); len(got) != 2 {
		t.Errorf("out1: expected 2 rows, got %d", len(got))
	}
	if !out2.IsSealed() {
		t.Error("expected out2 sealed")
	}
}

func TestNopRunnerCopiesUnchanged(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out := queue.New(4, queueSchema("a"))
	in.Put(types.Row{"a": "x"})
	in.Seal()

	node := &types.NodeDescriptor{Name: "passthrough", IterInfo: types.IterInfo{Kind: types.IterNop}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, nil, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 1 || rows[0]["a"] != "x" {
		t.Errorf("unexpected output: %v", rows)
	}
}

func TestMapRunner(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out := queue.New(4, queueSchema("a", "b"))
	in.Put(types.Row{"a": 3})
	in.Seal()

	node := &types.NodeDescriptor{Name: "double", Outputs: []string{"b"}, IterInfo: types.IterInfo{Kind: types.IterMap}}
	op := &operator.Operator{Map: func(row types.Row) (types.Row, error) {
		return types.Row{"b": row["a"].(int) * 2}, nil
	}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 1 || rows[0]["a"] != 3 || rows[0]["b"] != 6 {
		t.Errorf("unexpected output: %v", rows)
	}
}

func TestMapRunnerFailurePropagatesAndSeals(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out := queue.New(4, queueSchema("a"))
	in.Put(types.Row{"a": 1})
	in.Seal()

	boom := errors.New("boom")
	node := &types.NodeDescriptor{Name: "broken", IterInfo: types.IterInfo{Kind: types.IterMap}}
	op := &operator.Operator{Map: func(row types.Row) (types.Row, error) { return nil, boom }}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := r.Process(context.Background()); err == nil {
		t.Fatal("expected process error")
	}
	if r.Status() != StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", r.Status())
	}
	if !errors.Is(r.Err(), boom) {
		t.Errorf("expected wrapped boom error, got %v", r.Err())
	}
	if !out.IsSealed() {
		t.Error("expected out-queue sealed after failure")
	}
}

func TestFlatMapRunner(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out := queue.New(8, queueSchema("a", "b"))
	in.Put(types.Row{"a": 2})
	in.Seal()

	node := &types.NodeDescriptor{Name: "expand", IterInfo: types.IterInfo{Kind: types.IterFlatMap}}
	op := &operator.Operator{IterMap: func(row types.Row) ([]types.Row, error) {
		n := row["a"].(int)
		out := make([]types.Row, n)
		for i := 0; i < n; i++ {
			out[i] = types.Row{"b": i}
		}
		return out, nil
	}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestFilterRunnerDropsNonMatching(t *testing.T) {
	in := queue.New(4, queueSchema("a"))
	out := queue.New(4, queueSchema("a"))
	in.Put(types.Row{"a": 1})
	in.Put(types.Row{"a": 2})
	in.Put(types.Row{"a": 3})
	in.Seal()

	node := &types.NodeDescriptor{
		Name:     "evens",
		IterInfo: types.IterInfo{Kind: types.IterFilter, Filter: &types.FilterParam{FilterColumns: []string{"a"}}},
	}
	op := &operator.Operator{Filter: func(row types.Row) (bool, error) {
		return row["a"].(int)%2 == 0, nil
	}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 1 || rows[0]["a"] != 2 {
		t.Errorf("unexpected output: %v", rows)
	}
}

func TestConcatRunnerMergesAllProducers(t *testing.T) {
	in1 := queue.New(4, queueSchema("a"))
	in2 := queue.New(4, queueSchema("a"))
	out := queue.New(8, queueSchema("a"))

	in1.Put(types.Row{"a": 1})
	in1.Put(types.Row{"a": 2})
	in1.Seal()
	in2.Put(types.Row{"a": 3})
	in2.Seal()

	node := &types.NodeDescriptor{Name: "merge", IterInfo: types.IterInfo{Kind: types.IterConcat}}
	r, err := New(node, []*queue.TypedQueue{in1, in2}, []*queue.TypedQueue{out}, nil, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	got := make([]int, 0, 3)
	for _, row := range rows {
		got = append(got, row["a"].(int))
	}
	sort.Ints(got)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("unexpected merged rows: %v", got)
	}
}

func TestWindowRunnerTumbling(t *testing.T) {
	in := queue.New(8, queueSchema("a"))
	out := queue.New(4, queueSchema("sum"))
	for i := 1; i <= 4; i++ {
		in.Put(types.Row{"a": i})
	}
	in.Seal()

	node := &types.NodeDescriptor{
		Name:     "sum_pairs",
		IterInfo: types.IterInfo{Kind: types.IterWindow, Window: &types.WindowParam{Size: 2}},
	}
	op := &operator.Operator{Map: func(row types.Row) (types.Row, error) {
		vals := row["a"].([]interface{})
		sum := 0
		for _, v := range vals {
			sum += v.(int)
		}
		return types.Row{"sum": sum}, nil
	}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 2 || rows[0]["sum"] != 3 || rows[1]["sum"] != 7 {
		t.Errorf("unexpected windows: %v", rows)
	}
}

func TestTimeWindowRunner(t *testing.T) {
	in := queue.New(8, queueSchema("ts", "v"))
	out := queue.New(4, queueSchema("count"))

	in.Put(types.Row{"ts": int64(0), "v": 1})
	in.Put(types.Row{"ts": int64(5), "v": 2})
	in.Put(types.Row{"ts": int64(20), "v": 3})
	in.Seal()

	node := &types.NodeDescriptor{
		Name: "bucket",
		IterInfo: types.IterInfo{
			Kind:       types.IterTimeWindow,
			TimeWindow: &types.TimeWindowParam{TimestampColumn: "ts", Duration: 10},
		},
	}
	op := &operator.Operator{Map: func(row types.Row) (types.Row, error) {
		vals := row["v"].([]interface{})
		return types.Row{"count": len(vals)}, nil
	}}
	r, err := New(node, []*queue.TypedQueue{in}, []*queue.TypedQueue{out}, op, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	runToCompletion(t, r)

	rows := drain(out)
	if len(rows) != 2 || rows[0]["count"] != 2 || rows[1]["count"] != 1 {
		t.Errorf("unexpected windows: %v", rows)
	}
}

func TestNewUnknownIterKind(t *testing.T) {
	node := &types.NodeDescriptor{Name: "mystery", IterInfo: types.IterInfo{Kind: "bogus"}}
	if _, err := New(node, nil, nil, nil, Deps{}); !errors.Is(err, ErrUnknownIterKind) {
		t.Fatalf("expected ErrUnknownIterKind, got %v", err)
	}
}

func TestMapRunnerMissingOperator(t *testing.T) {
	node := &types.NodeDescriptor{Name: "bare", IterInfo: types.IterInfo{Kind: types.IterMap}}
	r, err := New(node, nil, nil, nil, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Initialize(context.Background()); !errors.Is(err, ErrNoOperator) {
		t.Fatalf("expected ErrNoOperator, got %v", err)
	}
}
