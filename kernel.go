// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

// A Kernel defines the per-algorithm behavior of the relaxation
// engine: how values propagate along edges, how competing candidates
// for a node combine, which candidates are worth applying, and how
// surviving candidates fold into the value vector. Kernels must be
// safe for concurrent calls to Relax, Combine, and Improves; Fold is
// always invoked by a single goroutine after the iteration barrier.
type Kernel[V any] interface {
	// Relax computes the candidate value that a node offers each of
	// its out-neighbors, given the node's current value and its
	// out-degree. Relax is called only for nodes with at least one
	// out-edge, so outDegree is always positive.
	Relax(value V, outDegree int) V

	// Combine merges two candidates targeting the same node into one.
	// Combine must be associative and commutative so that the reduced
	// value is deterministic regardless of partition count or arrival
	// order.
	Combine(a, b V) V

	// Improves reports whether applying candidate to a node currently
	// holding current would make progress. Candidates for which
	// Improves returns false are discarded before the fold.
	Improves(candidate, current V) bool

	// Fold applies the reduced, filtered candidates in batch onto the
	// value vector, returning whether any value changed by the
	// algorithm's convergence criterion. Fold runs single-threaded;
	// it is the only mutator of values.
	Fold(values []V, batch *Batch[V]) bool
}
