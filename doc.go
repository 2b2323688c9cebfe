// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package biggraph implements a bulk-synchronous iterative relaxation
engine for graph analytics. The engine repeatedly relaxes a dense
vector of per-node values toward a fixpoint: each iteration, a set of
partitions reads a consistent snapshot of the values and produces
candidate deltas from the graph's edge relation; candidates targeting
the same node are combined by an algorithm-supplied commutative
combinator; combined candidates that improve on a node's current value
are folded back into the vector; and the loop continues until a full
iteration changes nothing or the iteration budget is exhausted.

The per-algorithm behavior (how a node's value is offered to its
neighbors, how competing candidates combine, what counts as an
improvement, and how surviving candidates are folded) is supplied by a
Kernel. Candidate production is supplied by a Source, of which there
are two: Join streams hash-sharded edges and pairs each edge with its
source node's snapshot value, while Broadcast walks a fully replicated
adjacency so that each partition serves a contiguous range of nodes
without touching the edge relation. The two sources produce the same
candidate multiset for the same graph and may be interchanged freely.

Packages components and pagerank instantiate the engine for connected
components labeling and PageRank respectively.
*/
package biggraph
