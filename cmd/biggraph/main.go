// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Biggraph runs the graph relaxation workloads over delimited node
// and edge listings:
//
//	biggraph [flags] components
//	biggraph [flags] pagerank
//
// The node listing holds one node id per record and must enumerate
// [0, N) exactly; the edge listing holds comma-delimited
// (source, target) pairs. Components interprets edges as undirected;
// pagerank as directed. Listings and results may be local paths or
// s3:// URLs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/status"
	"github.com/grailbio/biggraph/components"
	"github.com/grailbio/biggraph/graph"
	"github.com/grailbio/biggraph/graphio"
	"github.com/grailbio/biggraph/pagerank"
)

func init() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

var (
	nodesPath = flag.String("nodes", "", "path of the node listing")
	edgesPath = flag.String("edges", "", "path of the edge listing")
	numNodes  = flag.Int("N", 0, "total node count; the node listing must enumerate [0,N) exactly")
	maxIter   = flag.Int("i", 0, "iteration budget")
	strategy  = flag.String("strategy", "join", "candidate distribution strategy: join or broadcast")
	parallel  = flag.Int("p", 0, "number of partitions (default GOMAXPROCS)")
	out       = flag.String("out", "", "path to write (node, value) results; omitted, only a summary is printed")
	damp      = flag.Float64("damp", pagerank.DefaultDamp, "pagerank dampening factor, in [0,1)")
	eps       = flag.Float64("eps", pagerank.DefaultEps, "pagerank relative convergence threshold")
	console   = flag.Bool("console-status", false, "print live status to stdout")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: biggraph [flags] components|pagerank

Flags:
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.AddFlags()
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if *nodesPath == "" || *edgesPath == "" {
		fmt.Fprintln(os.Stderr, "biggraph: -nodes and -edges are required")
		flag.Usage()
	}
	if *numNodes <= 0 {
		log.Fatalf("biggraph: node count %d is not positive", *numNodes)
	}
	var broadcast bool
	switch *strategy {
	case "join":
	case "broadcast":
		broadcast = true
	default:
		log.Fatalf("biggraph: invalid strategy %q (want join or broadcast)", *strategy)
	}
	var group *status.Group
	if *console {
		var stat status.Status
		group = stat.Group("relax")
		var reporter status.Reporter
		go reporter.Go(os.Stdout, &stat)
	}
	ctx := context.Background()
	switch flag.Arg(0) {
	case "components":
		g, err := graphio.ReadGraph(ctx, *nodesPath, *edgesPath, *numNodes, graph.Undirected)
		if err != nil {
			log.Fatal(err)
		}
		result, err := components.Run(ctx, g, components.Opts{
			MaxIter:     *maxIter,
			Broadcast:   broadcast,
			Parallelism: *parallel,
			Status:      group,
		})
		if err != nil {
			log.Fatal(err)
		}
		distinct := make(map[uint64]bool)
		for _, label := range result.Labels {
			distinct[label] = true
		}
		log.Printf("components: %d components over %d nodes in %d iterations (converged=%v)",
			len(distinct), len(result.Labels), result.Iterations, result.Converged)
		if *out != "" {
			if err := graphio.WriteLabels(ctx, *out, result.Labels); err != nil {
				log.Fatal(err)
			}
		}
	case "pagerank":
		g, err := graphio.ReadGraph(ctx, *nodesPath, *edgesPath, *numNodes, graph.Directed)
		if err != nil {
			log.Fatal(err)
		}
		result, err := pagerank.Run(ctx, g, pagerank.Opts{
			MaxIter:     *maxIter,
			Damp:        *damp,
			Eps:         *eps,
			Broadcast:   broadcast,
			Parallelism: *parallel,
			Status:      group,
		})
		if err != nil {
			log.Fatal(err)
		}
		var sum float64
		for _, rank := range result.Ranks {
			sum += rank
		}
		log.Printf("pagerank: %d nodes in %d iterations (converged=%v, mass=%g)",
			len(result.Ranks), result.Iterations, result.Converged, sum)
		if *out != "" {
			if err := graphio.WriteRanks(ctx, *out, result.Ranks); err != nil {
				log.Fatal(err)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "biggraph: unknown command %q\n", flag.Arg(0))
		flag.Usage()
	}
}
