package runner

import (
	"context"

	"github.com/colexec/colexec/pkg/observer"
)

// inputRunner forwards rows from the single caller-sealed in-queue (_input's
// dedicated entry edge, distinct from its real out-edges — see
// compiler.assignEdges) to every out-queue unchanged, then seals them. It
// carries no operator.
type inputRunner struct{ base }

func (r *inputRunner) Initialize(ctx context.Context) error { return nil }

func (r *inputRunner) Process(ctx context.Context) error {
	r.setRunning()
	for {
		row, ok := r.in[0].Get()
		if !ok {
			r.setFinished()
			return nil
		}
		if err := r.writeAll(row); err != nil {
			return r.fail(err)
		}
	}
}

// outputRunner delivers rows from its in-queues to the terminal out-queue.
// The Compiler sets _output's out-edges equal to its in-edges, so its
// out-queues are the very queues its producers write to and seal: the rows
// are already in the terminal queue, and the runner finishes without
// reading or sealing anything. When its out-queues differ from its
// in-queues it forwards rows (any arrival order across multiple producers)
// the way concat does.
type outputRunner struct{ base }

func (r *outputRunner) Initialize(ctx context.Context) error { return nil }

func (r *outputRunner) Process(ctx context.Context) error {
	shared := len(r.in) == len(r.out)
	for i := 0; shared && i < len(r.in); i++ {
		shared = r.in[i] == r.out[i]
	}
	if !shared {
		return (&concatRunner{base: r.base}).Process(ctx)
	}
	r.setRunning()
	r.mu.Lock()
	r.status = StatusFinished
	r.mu.Unlock()
	r.notify(observer.EventNodeSuccess, observer.StatusSuccess, nil, nil)
	return nil
}

// nopRunner copies inputs to outputs unchanged.
type nopRunner struct{ base }

func (r *nopRunner) Initialize(ctx context.Context) error { return nil }

func (r *nopRunner) Process(ctx context.Context) error {
	r.setRunning()
	for _, q := range r.in {
		for {
			row, ok := q.Get()
			if !ok {
				break
			}
			if err := r.writeAll(row); err != nil {
				return r.fail(err)
			}
		}
	}
	r.setFinished()
	return nil
}
