// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package biggraph

import (
	"context"

	"github.com/grailbio/base/errors"
)

// EOF is the error returned by DeltaReader.Read when the partition's
// candidates are exhausted. EOF is a sentinel: it signals a graceful
// end of the partition's output, not a failure.
var EOF = errors.New("EOF")

// defaultChunksize is the size of the delta vectors passed between
// readers and the engine.
const defaultChunksize = 1024

// A DeltaReader is a stateful stream of candidate deltas for one
// partition of one iteration.
type DeltaReader[V any] interface {
	// Read reads up to len(deltas) candidate deltas into deltas,
	// returning the number read. When the partition's candidates are
	// exhausted, Read returns EOF; n may be positive alongside EOF.
	//
	// Read should not be called concurrently.
	Read(ctx context.Context, deltas []Delta[V]) (n int, err error)
}

// A Source produces candidate deltas from the current node values. A
// source carries the edge relation in some distribution (hash-sharded
// edges for Join, replicated adjacency for Broadcast) and splits
// candidate production into independent partitions; the engine runs
// one goroutine per partition each iteration.
//
// The relax function passed to Reader derives the candidate a node
// offers its neighbors from the start-of-iteration snapshot; sources
// call it only for nodes with positive out-degree.
type Source[V any] interface {
	// Partitions returns the number of partitions the source splits
	// candidate production into. It is fixed for the source's
	// lifetime.
	Partitions() int

	// Reader returns a reader over the given partition's candidates
	// for the current iteration.
	Reader(partition int, relax func(node uint64, outDegree int) V) DeltaReader[V]
}
