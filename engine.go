// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

import (
	"context"
	"expvar"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/base/status"
	"golang.org/x/sync/errgroup"
)

var (
	relaxIterations = expvar.NewInt("relaxiterations")
	relaxCandidates = expvar.NewInt("relaxcandidates")
	relaxUpdates    = expvar.NewInt("relaxupdates")
)

// Opts configures a relaxation engine.
type Opts struct {
	// MaxIter is the iteration budget: the engine stops after this
	// many iterations whether or not the values have reached a
	// fixpoint. MaxIter must be positive. There is no wall-clock
	// bound; the budget is the only hard limit on a run.
	MaxIter int

	// Status optionally receives per-iteration progress.
	Status *status.Group
}

// Result is the outcome of a relaxation run: the final value vector,
// the number of iterations performed, and whether the run reached a
// fixpoint within its budget. An unconverged result is a legitimate
// snapshot, not an error.
type Result[V any] struct {
	Values     []V
	Iterations int
	Converged  bool
}

type engineState int

const (
	running engineState = iota
	stopped
)

// An Engine drives a value vector to a fixpoint by bulk-synchronous
// iteration. Each iteration, the engine hands the current values
// (read-only) to one goroutine per source partition; each partition
// combines its candidate deltas into a private batch; the engine
// merges batches as they arrive, discards candidates the kernel
// rejects, folds the survivors into the values single-threaded, and
// decides whether to continue. The values are never locked: reads
// are confined to the generation phase and the fold runs strictly
// after every partition has delivered its batch.
type Engine[V any] struct {
	kernel Kernel[V]
	source Source[V]
	opts   Opts

	values    []V
	iter      int
	state     engineState
	converged bool
}

// New returns an engine relaxing the given initial values with the
// kernel's update rule and the source's candidate production. The
// engine takes ownership of initial. New fails if opts.MaxIter is not
// positive. A zero-length initial vector yields an engine that is
// already stopped and converged: there is nothing to relax.
func New[V any](kernel Kernel[V], source Source[V], initial []V, opts Opts) (*Engine[V], error) {
	must.True(kernel != nil, "biggraph: nil kernel")
	must.True(source != nil, "biggraph: nil source")
	if opts.MaxIter < 1 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("biggraph: iteration budget %d is not positive", opts.MaxIter))
	}
	e := &Engine[V]{kernel: kernel, source: source, opts: opts, values: initial}
	if len(initial) == 0 {
		e.state = stopped
		e.converged = true
	}
	return e, nil
}

// Step performs one full iteration: delta generation across all
// partitions, the collection barrier, reduction, filtering, and the
// fold. It returns whether the fold changed any value. Once the
// engine has stopped, Step is a no-op that leaves the values frozen
// and reports no change.
func (e *Engine[V]) Step(ctx context.Context) (changed bool, err error) {
	if e.state == stopped {
		return false, nil
	}
	relax := func(node uint64, outDegree int) V {
		return e.kernel.Relax(e.values[node], outDegree)
	}
	partitions := e.source.Partitions()
	batchc := make(chan *Batch[V], partitions)
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < partitions; p++ {
		p := p
		g.Go(func() error {
			batch, err := e.gather(gctx, p, relax)
			if err != nil {
				return err
			}
			batchc <- batch
			return nil
		})
	}
	// The barrier: batches are merged as partitions deliver them;
	// the fold starts only after every partition has finished.
	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		close(batchc)
	}()
	merged := NewBatch(len(e.values), e.kernel.Combine)
	for batch := range batchc {
		merged.Merge(batch)
	}
	if err := <-errc; err != nil {
		return false, err
	}
	relaxCandidates.Add(merged.Hits())
	merged.Filter(func(node uint64, value V) bool {
		return e.kernel.Improves(value, e.values[node])
	})
	relaxUpdates.Add(int64(merged.Len()))
	changed = e.kernel.Fold(e.values, merged)
	e.iter++
	relaxIterations.Add(1)
	switch {
	case !changed:
		e.state = stopped
		e.converged = true
	case e.iter >= e.opts.MaxIter:
		e.state = stopped
	}
	return changed, nil
}

// gather drains one partition's delta reader into a fresh combining
// batch.
func (e *Engine[V]) gather(ctx context.Context, partition int, relax func(node uint64, outDegree int) V) (*Batch[V], error) {
	reader := e.source.Reader(partition, relax)
	batch := NewBatch(len(e.values), e.kernel.Combine)
	deltas := make([]Delta[V], defaultChunksize)
	for {
		n, err := reader.Read(ctx, deltas)
		for _, d := range deltas[:n] {
			batch.Add(d.Node, d.Value)
		}
		if err == EOF {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Run iterates until the values reach a fixpoint or the iteration
// budget is exhausted, returning the final result. Cancellation is
// honored between iterations; an aborted run retains no partial
// result.
func (e *Engine[V]) Run(ctx context.Context) (Result[V], error) {
	var task *status.Task
	if e.opts.Status != nil {
		task = e.opts.Status.Startf("relax %d nodes", len(e.values))
		defer task.Done()
	}
	for e.state == running {
		if err := ctx.Err(); err != nil {
			return Result[V]{}, err
		}
		changed, err := e.Step(ctx)
		if err != nil {
			return Result[V]{}, errors.E(fmt.Sprintf("relax: iteration %d", e.iter), err)
		}
		if task != nil {
			task.Printf("iteration %d", e.iter)
		}
		log.Debug.Printf("relax: iteration %d changed=%v", e.iter, changed)
	}
	if !e.converged {
		log.Printf("relax: budget of %d iterations exhausted before fixpoint", e.opts.MaxIter)
	}
	return e.Result(), nil
}

// Running reports whether the engine will perform further iterations.
func (e *Engine[V]) Running() bool { return e.state == running }

// Result returns the engine's current result. The returned values
// are shared with the engine and must be treated as read-only until
// the engine has stopped; after that they are frozen.
func (e *Engine[V]) Result() Result[V] {
	return Result[V]{Values: e.values, Iterations: e.iter, Converged: e.converged}
}
