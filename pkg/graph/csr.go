// Package graph provides an immutable compressed-sparse-row adjacency
// structure implementing the engine's topology interface, plus a builder and
// an edge-list loader. A CSR is safe for concurrent reads; it cannot be
// mutated after Build.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNodeOutOfRange = errors.New("node id out of range")

// CSR is a compressed-sparse-row adjacency list. Neighbors of node n live in
// targets[offsets[n]:offsets[n+1]], sorted by target id. weights is parallel
// to targets and nil for unweighted graphs.
type CSR struct {
	offsets []int64
	targets []uint64
	weights []float64
}

// NodeCount returns the number of nodes.
func (g *CSR) NodeCount() uint64 {
	return uint64(len(g.offsets) - 1)
}

// RelationshipCount returns the number of relationships.
func (g *CSR) RelationshipCount() uint64 {
	return uint64(len(g.targets))
}

// Degree returns the number of outgoing relationships of a node.
func (g *CSR) Degree(node uint64) int {
	return int(g.offsets[node+1] - g.offsets[node])
}

// ForEachNeighbor invokes fn for every outgoing relationship of a node until
// fn returns false. Unweighted graphs report a weight of 1.0.
func (g *CSR) ForEachNeighbor(node uint64, fn func(target uint64, weight float64) bool) {
	lo, hi := g.offsets[node], g.offsets[node+1]
	for i := lo; i < hi; i++ {
		w := 1.0
		if g.weights != nil {
			w = g.weights[i]
		}
		if !fn(g.targets[i], w) {
			return
		}
	}
}

type relationship struct {
	source uint64
	target uint64
	weight float64
}

// Builder accumulates relationships and assembles a CSR. Not safe for
// concurrent use.
type Builder struct {
	nodeCount uint64
	weighted  bool
	rels      []relationship
}

// NewBuilder creates a builder for a graph with the given node count; all
// relationship endpoints must be below it.
func NewBuilder(nodeCount uint64) *Builder {
	return &Builder{nodeCount: nodeCount}
}

// AddRelationship records an unweighted relationship.
func (b *Builder) AddRelationship(source, target uint64) error {
	return b.add(source, target, 1.0, false)
}

// AddWeightedRelationship records a weighted relationship. Mixing weighted
// and unweighted relationships marks the whole graph weighted; unweighted
// ones keep weight 1.0.
func (b *Builder) AddWeightedRelationship(source, target uint64, weight float64) error {
	return b.add(source, target, weight, true)
}

func (b *Builder) add(source, target uint64, weight float64, weighted bool) error {
	if source >= b.nodeCount {
		return fmt.Errorf("%w: source %d (node count %d)", ErrNodeOutOfRange, source, b.nodeCount)
	}
	if target >= b.nodeCount {
		return fmt.Errorf("%w: target %d (node count %d)", ErrNodeOutOfRange, target, b.nodeCount)
	}
	if weighted {
		b.weighted = true
	}
	b.rels = append(b.rels, relationship{source: source, target: target, weight: weight})
	return nil
}

// Build assembles the immutable CSR. The builder can be reused afterwards,
// but relationships added later do not affect already built graphs.
func (b *Builder) Build() *CSR {
	sort.SliceStable(b.rels, func(i, j int) bool {
		if b.rels[i].source != b.rels[j].source {
			return b.rels[i].source < b.rels[j].source
		}
		return b.rels[i].target < b.rels[j].target
	})

	offsets := make([]int64, b.nodeCount+1)
	targets := make([]uint64, len(b.rels))
	var weights []float64
	if b.weighted {
		weights = make([]float64, len(b.rels))
	}

	for i, rel := range b.rels {
		offsets[rel.source+1]++
		targets[i] = rel.target
		if weights != nil {
			weights[i] = rel.weight
		}
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}

	return &CSR{offsets: offsets, targets: targets, weights: weights}
}
