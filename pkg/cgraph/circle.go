package cgraph

import (
	"math"
	"slices"

	"github.com/rondel-viz/rondel/pkg/geom"
)

// Circle is the per-cluster container. It owns the canonical circular order
// of its on-circle nodes, the edge sets touching the cluster, the circle's
// radius and margin, and the pairwise order matrix used by the refinement
// stage.
type Circle struct {
	// Parent is the placeholder node representing this circle in the parent
	// graph.
	Parent *Node
	// ClusterID is the cluster this circle lays out.
	ClusterID int
	// Radius of the perimeter the on-circle nodes sit on. Zero until the
	// per-cluster ordering stage has run; a circle with no members keeps
	// radius zero.
	Radius float64
	// Margin is extra clearance added around the perimeter when sizing the
	// placeholder.
	Margin float64
	// MayBeReversed is false for circles whose order must never be flipped
	// (fewer than two inter-cluster edges). Set by MarkReversible.
	MayBeReversed bool

	nodes      []*Node // canonical circular order
	inside     []*Node // nodes pulled into the interior by post-processing
	intraEdges []*Edge
	interEdges []*Edge

	// order[i][j] reports whether node with orderIdx i reaches node with
	// orderIdx j within half a revolution walking counter-clockwise.
	order [][]bool
}

// Nodes returns the on-circle nodes in canonical circular order. The returned
// slice is a read-only view; use SortByIndex, Reverse, or SwapAdjacent to
// change the order.
func (c *Circle) Nodes() []*Node { return c.nodes }

// Size returns the number of on-circle nodes.
func (c *Circle) Size() int { return len(c.nodes) }

// InNodes returns the on-circle nodes with no inter-cluster edge.
func (c *Circle) InNodes() []*Node {
	var in []*Node
	for _, n := range c.nodes {
		if !n.On.out {
			in = append(in, n)
		}
	}
	return in
}

// OutNodes returns the on-circle nodes with at least one inter-cluster edge.
func (c *Circle) OutNodes() []*Node {
	var out []*Node
	for _, n := range c.nodes {
		if n.On.out {
			out = append(out, n)
		}
	}
	return out
}

// InsideNodes returns the nodes moved into the circle's interior.
func (c *Circle) InsideNodes() []*Node { return c.inside }

// IntraClusterEdges returns the edges with both endpoints on this circle.
func (c *Circle) IntraClusterEdges() []*Edge { return c.intraEdges }

// InterClusterEdges returns the edges leaving this circle.
func (c *Circle) InterClusterEdges() []*Edge { return c.interEdges }

// Center returns the circle's center, which is the center of its placeholder
// node.
func (c *Circle) Center() geom.Point { return c.Parent.Center() }

// markOutNode records that n has an inter-cluster edge. Idempotent.
func (c *Circle) markOutNode(n *Node) { n.On.out = true }

// SortByIndex re-sorts the canonical order by ascending circular index.
// Called after the per-cluster ordering stage has assigned indices.
func (c *Circle) SortByIndex() {
	slices.SortFunc(c.nodes, func(a, b *Node) int { return a.On.Index - b.On.Index })
}

// MaxNodeDim returns the largest width or height among the on-circle nodes,
// or zero for an empty circle.
func (c *Circle) MaxNodeDim() float64 {
	max := 0.0
	for _, n := range c.nodes {
		max = math.Max(max, n.Rect.MaxDim())
	}
	return max
}

// UpdatePositions places every on-circle node at its angular position on the
// perimeter, relative to the current circle center.
func (c *Circle) UpdatePositions() {
	center := c.Center()
	for _, n := range c.nodes {
		n.SetCenter(center.Add(geom.Polar(c.Radius, n.On.Angle)))
	}
}

// MarkReversible decides whether the circle may ever be flipped. A full
// reversal cannot reduce crossings when the circle has fewer than two
// external attachment points.
func (c *Circle) MarkReversible() {
	c.MayBeReversed = len(c.interEdges) >= 2
}

// BuildOrderMatrix computes the pairwise circular-order relation from the
// current angles. Entry (i, j) is true iff walking counter-clockwise from
// node i reaches node j before completing half a revolution. Exact ties
// (coincident or antipodal angles) fall back to index order so the matrix
// stays antisymmetric.
//
// Each node's matrix ordinal is fixed here and survives later reversals and
// swaps, which update the matrix through Reverse and SwapAdjacent instead of
// recomputing it.
func (c *Circle) BuildOrderMatrix() {
	n := len(c.nodes)
	c.order = make([][]bool, n)
	for i := range c.order {
		c.order[i] = make([]bool, n)
	}
	for i, node := range c.nodes {
		node.On.orderIdx = i
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := geom.AngleDiffCCW(c.nodes[i].On.Angle, c.nodes[j].On.Angle)
			if d == 0 || d == math.Pi {
				c.order[i][j] = i < j
			} else {
				c.order[i][j] = d < math.Pi
			}
		}
	}
}

// HasOrderMatrix reports whether BuildOrderMatrix has run.
func (c *Circle) HasOrderMatrix() bool { return c.order != nil }

// Before reports whether walking counter-clockwise from u reaches v within
// half a revolution. Both nodes must belong to this circle and the order
// matrix must have been built.
func (c *Circle) Before(u, v *Node) bool {
	return c.order[u.On.orderIdx][v.On.orderIdx]
}

// Reverse flips the circle's circular order. The node at position zero stays
// fixed and the rest of the sequence is mirrored, so the set of angular slots
// on the perimeter is preserved while every pairwise orientation flips. The
// order matrix is complemented accordingly and node positions are re-derived
// from their new angles.
//
// Reversing twice restores the original order, angles, and matrix.
func (c *Circle) Reverse() {
	n := len(c.nodes)
	if n <= 2 {
		return
	}
	slots := make([]float64, n)
	for i, node := range c.nodes {
		slots[i] = node.On.Angle
	}
	slices.Reverse(c.nodes[1:])
	for i, node := range c.nodes {
		node.On.Index = i
		node.On.Angle = slots[i]
	}
	for i := range c.order {
		for j := range c.order[i] {
			if i != j {
				c.order[i][j] = !c.order[i][j]
			}
		}
	}
	c.UpdatePositions()
}

// SwapAdjacent exchanges the circular positions of the nodes at order
// positions i and i+1 (mod size). The two nodes trade angular slots, the
// affected pair's order-matrix entries are flipped, and both positions are
// recomputed. Relations to all other nodes are left untouched.
func (c *Circle) SwapAdjacent(i int) {
	n := len(c.nodes)
	j := (i + 1) % n
	u, v := c.nodes[i], c.nodes[j]

	c.nodes[i], c.nodes[j] = v, u
	u.On.Index, v.On.Index = j, i
	u.On.Angle, v.On.Angle = v.On.Angle, u.On.Angle

	ui, vi := u.On.orderIdx, v.On.orderIdx
	c.order[ui][vi] = !c.order[ui][vi]
	c.order[vi][ui] = !c.order[vi][ui]

	center := c.Center()
	u.SetCenter(center.Add(geom.Polar(c.Radius, u.On.Angle)))
	v.SetCenter(center.Add(geom.Polar(c.Radius, v.On.Angle)))
}
