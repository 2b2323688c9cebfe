// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/grailbio/base/traverse"
	"github.com/spaolacci/murmur3"
)

// shardSeed is used when hashing node ids into shards. Seeding keeps
// shard assignment independent of any hashing the caller may have
// applied to node ids upstream.
const shardSeed = 0x9acb0442

// Shards is the hash-partitioned form of a graph's edge relation used
// by the join strategy: every edge is assigned to exactly one shard
// by the murmur3 hash of its source node, so all edges leaving a node
// land in the same shard. Shards are built once and shared read-only
// for the lifetime of a run.
type Shards struct {
	graph  *Graph
	shards [][]Edge
}

// Shard partitions g's edge relation into nshard shards by source
// node hash. Shard panics if nshard is not positive.
func Shard(g *Graph, nshard int) *Shards {
	if nshard < 1 {
		panic("graph: nshard must be positive")
	}
	s := &Shards{graph: g, shards: make([][]Edge, nshard)}
	edges := g.Edges()
	// Each shard scans the full relation but writes only its own
	// bucket, so the fill needs no synchronization.
	_ = traverse.Each(nshard, func(shard int) error {
		var bucket []Edge
		for _, e := range edges {
			if int(hash64(e.Src, shardSeed))%nshard == shard {
				bucket = append(bucket, e)
			}
		}
		s.shards[shard] = bucket
		return nil
	})
	return s
}

// NumShard returns the number of shards.
func (s *Shards) NumShard() int { return len(s.shards) }

// Edges returns the edges assigned to the given shard. The returned
// slice is shared and must not be modified.
func (s *Shards) Edges(shard int) []Edge { return s.shards[shard] }

// Graph returns the graph the shards were built from.
func (s *Shards) Graph() *Graph { return s.graph }

// Hash64 uses murmur3 to compute a 32-bit hash of a 64-bit node id.
func hash64(x uint64, seed uint32) uint32 {
	var b [8]byte
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
	b[4] = byte(x >> 32)
	b[5] = byte(x >> 40)
	b[6] = byte(x >> 48)
	b[7] = byte(x >> 56)
	return murmur3.Sum32WithSeed(b[:], seed)
}
