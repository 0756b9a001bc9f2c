// Package avsdf implements an Adjacent Vertex with Smallest Degree First
// circular layout for a single cluster.
//
// Given the members and internal edges of one cluster, the algorithm picks a
// circular order that keeps adjacent vertices close together: vertices are
// visited depth-first starting from the vertex of smallest degree, always
// preferring the unplaced neighbor with the smallest degree, and appended to
// the perimeter in visit order. Arc length per vertex is proportional to the
// vertex's larger dimension plus the configured separation, so big nodes get
// more room on the circle.
//
// The package satisfies the engine's single-cluster ordering contract: it
// reports a circular index, an angle, and the enclosing circle's radius for
// every member.
package avsdf

import (
	"math"
	"slices"
	"strings"
)

// DefaultNodeSeparation is the arc clearance left between neighboring nodes
// on the perimeter.
const DefaultNodeSeparation = 12.0

// Node is one cluster member to place on the circle.
type Node struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Edge is one intra-cluster connection between members.
type Edge struct {
	Source string
	Target string
}

// Result describes the computed circular arrangement.
type Result struct {
	// Index is each member's position in the circular order.
	Index map[string]int
	// Angle is each member's angular position in radians.
	Angle map[string]float64
	// Radius is the radius of the enclosing circle.
	Radius float64
	// CenterX, CenterY locate the circle center, taken as the centroid of
	// the input positions so the cluster stays roughly where it was.
	CenterX float64
	CenterY float64
}

// Layout computes circular orderings for single clusters.
type Layout struct {
	// NodeSeparation is the arc clearance between neighbors; zero means
	// DefaultNodeSeparation.
	NodeSeparation float64
}

// New returns a Layout with default parameters.
func New() *Layout { return &Layout{} }

// Order arranges the given nodes on a circle. An empty node set yields a
// zero-radius result with empty maps.
func (l *Layout) Order(nodes []Node, edges []Edge) Result {
	res := Result{
		Index: make(map[string]int, len(nodes)),
		Angle: make(map[string]float64, len(nodes)),
	}
	if len(nodes) == 0 {
		return res
	}

	sep := l.NodeSeparation
	if sep <= 0 {
		sep = DefaultNodeSeparation
	}

	order := visitOrder(nodes, edges)

	// Arc per node proportional to its footprint on the perimeter.
	arcs := make([]float64, len(order))
	perimeter := 0.0
	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for i, id := range order {
		n := byID[id]
		arcs[i] = math.Max(n.Width, n.Height) + sep
		perimeter += arcs[i]
	}
	res.Radius = perimeter / (2 * math.Pi)

	// Place nodes at the middle of their arcs, walking counter-clockwise
	// from angle zero.
	at := 0.0
	for i, id := range order {
		res.Index[id] = i
		res.Angle[id] = (at + arcs[i]/2) / res.Radius
		at += arcs[i]
	}

	sumX, sumY := 0.0, 0.0
	for _, n := range nodes {
		sumX += n.X + n.Width/2
		sumY += n.Y + n.Height/2
	}
	res.CenterX = sumX / float64(len(nodes))
	res.CenterY = sumY / float64(len(nodes))
	return res
}

// visitOrder runs the AVSDF traversal and returns node IDs in placement
// order. Disconnected components are started from their smallest-degree
// vertex in turn.
func visitOrder(nodes []Node, edges []Edge) []string {
	adj := make(map[string][]string, len(nodes))
	degree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = nil
		degree[n.ID] = 0
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
		degree[e.Source]++
		degree[e.Target]++
	}

	// Deterministic tie-breaking: degree ascending, then ID.
	byDegree := make([]string, 0, len(nodes))
	for _, n := range nodes {
		byDegree = append(byDegree, n.ID)
	}
	slices.SortFunc(byDegree, func(a, b string) int {
		if degree[a] != degree[b] {
			return degree[a] - degree[b]
		}
		return strings.Compare(a, b)
	})

	placed := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))
	var stack []string

	push := func(id string) { stack = append(stack, id) }
	for _, seed := range byDegree {
		if placed[seed] {
			continue
		}
		push(seed)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if placed[v] {
				continue
			}
			placed[v] = true
			order = append(order, v)

			// Push unplaced neighbors largest-degree first so the
			// smallest-degree neighbor is visited next.
			nbrs := slices.Clone(adj[v])
			slices.SortFunc(nbrs, func(a, b string) int {
				if degree[a] != degree[b] {
					return degree[b] - degree[a]
				}
				return strings.Compare(b, a)
			})
			for _, w := range nbrs {
				if !placed[w] {
					push(w)
				}
			}
		}
	}
	return order
}
