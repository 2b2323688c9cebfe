// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package graphio reads the delimited node and edge listings consumed
// by the biggraph engine and writes the resulting value vectors.
// Paths are resolved through grailbio/base/file, so listings and
// results may live on the local file system or any registered
// implementation (for example s3:// when the s3 implementation is
// registered, as cmd/biggraph does).
//
// A node listing holds one node id per record; it must enumerate the
// dense id space [0, N) exactly, in any order. An edge listing holds
// comma-delimited (source, target) pairs, no header. All listing
// errors are configuration errors: they abort the run before any
// iteration starts and yield no partial result.
package graphio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/data"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biggraph/graph"
	"golang.org/x/sync/errgroup"
)

// ReadNodes reads the node listing at path and checks that it
// enumerates [0, n) exactly: every record a valid id below n, no id
// repeated, n records in total. It returns the number of nodes read.
func ReadNodes(ctx context.Context, path string, n int) (int, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer f.Close(ctx)
	counter := &countingReader{reader: f.Reader(ctx)}
	r := csv.NewReader(counter)
	r.FieldsPerRecord = 1
	seen := make([]bool, n)
	var nread int
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("%s:%d", path, line), err)
		}
		id, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: malformed node id %q", path, line, record[0]), err)
		}
		if id >= uint64(n) {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: node id %d out of range [0,%d)", path, line, id, n))
		}
		if seen[id] {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: duplicate node id %d", path, line, id))
		}
		seen[id] = true
		nread++
	}
	if nread != n {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("%s: %d nodes listed, configured node count is %d", path, nread, n))
	}
	log.Printf("%s: read %d nodes (%s)", path, nread, data.Size(counter.n))
	return nread, nil
}

// ReadEdges reads the edge listing at path. Endpoints are not range
// checked here; graph.New validates them against the node count.
func ReadEdges(ctx context.Context, path string) ([]graph.Edge, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx)
	counter := &countingReader{reader: f.Reader(ctx)}
	r := csv.NewReader(counter)
	r.FieldsPerRecord = 2
	var edges []graph.Edge
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d", path, line), err)
		}
		src, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: malformed source %q", path, line, record[0]), err)
		}
		dst, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s:%d: malformed target %q", path, line, record[1]), err)
		}
		edges = append(edges, graph.Edge{Src: src, Dst: dst})
	}
	log.Printf("%s: read %d edges (%s)", path, len(edges), data.Size(counter.n))
	return edges, nil
}

// ReadGraph reads the node and edge listings concurrently and builds
// the validated graph over [0, n).
func ReadGraph(ctx context.Context, nodesPath, edgesPath string, n int, kind graph.Kind) (*graph.Graph, error) {
	var edges []graph.Edge
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := ReadNodes(ctx, nodesPath, n)
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = ReadEdges(ctx, edgesPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return graph.New(n, edges, kind)
}

// WriteLabels writes (node, label) records to path as CSV, in node
// order.
func WriteLabels(ctx context.Context, path string, labels []uint64) error {
	return write(ctx, path, len(labels), func(node int) string {
		return strconv.FormatUint(labels[node], 10)
	})
}

// WriteRanks writes (node, rank) records to path as CSV, in node
// order.
func WriteRanks(ctx context.Context, path string, ranks []float64) error {
	return write(ctx, path, len(ranks), func(node int) string {
		return strconv.FormatFloat(ranks[node], 'g', -1, 64)
	})
}

func write(ctx context.Context, path string, n int, format func(node int) string) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f.Writer(ctx))
	for node := 0; node < n; node++ {
		if err := w.Write([]string{strconv.Itoa(node), format(node)}); err != nil {
			f.Close(ctx)
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close(ctx)
		return err
	}
	return f.Close(ctx)
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	return n, err
}
