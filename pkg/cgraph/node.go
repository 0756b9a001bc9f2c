package cgraph

import "github.com/rondel-viz/rondel/pkg/geom"

// Unclustered is the sentinel cluster ID for nodes that belong to no cluster.
const Unclustered = -1

// Node is a vertex of the clustered graph. Three shapes of node exist:
//
//   - ordinary unclustered nodes (ClusterID == Unclustered, no extensions)
//   - on-circle nodes (On != nil, owned by a Circle)
//   - cluster placeholders (Child != nil, stand in for a whole circle in the
//     quotient graph; they carry no cluster ID of their own)
//
// The zero value is not usable; nodes are created by [Build].
type Node struct {
	ID        string
	Rect      geom.Rect
	ClusterID int

	// Owner is the circle this node sits on, nil for root-level nodes.
	Owner *Circle
	// Child is the circle this node stands in for, nil unless the node is a
	// cluster placeholder.
	Child *Circle
	// On holds the circle-boundary extension, nil unless the node is on a
	// circle's perimeter.
	On *OnCircle
}

// OnCircle is the extension record carried by every node placed on a circle's
// perimeter.
type OnCircle struct {
	// Index is the node's position in its circle's canonical circular order.
	Index int
	// Angle is the node's angular position on the circle, in radians.
	Angle float64
	// IntraEdges are the incident edges whose other endpoint is on the same
	// circle.
	IntraEdges []*Edge
	// InterEdges are the incident edges leaving the circle.
	InterEdges []*Edge

	// out marks the node as having at least one inter-cluster edge. Set once
	// during construction and never cleared.
	out bool
	// orderIdx is the node's row/column in its circle's order matrix,
	// assigned by BuildOrderMatrix and stable across reversals and swaps.
	orderIdx int
}

// Center returns the node's center point.
func (n *Node) Center() geom.Point { return n.Rect.Center() }

// SetCenter moves the node so its center is at p.
func (n *Node) SetCenter(p geom.Point) { n.Rect.SetCenter(p) }

// IsPlaceholder reports whether the node stands in for a cluster circle.
func (n *Node) IsPlaceholder() bool { return n.Child != nil }

// IsOnCircle reports whether the node sits on a circle's perimeter.
func (n *Node) IsOnCircle() bool { return n.On != nil }

// IsOutNode reports whether the node is an on-circle node with at least one
// inter-cluster edge. Returns false for nodes not on a circle.
func (n *Node) IsOutNode() bool { return n.On != nil && n.On.out }
