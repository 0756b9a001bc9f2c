// Package cgraph implements the clustered graph model used by the circular
// layout engine.
//
// A clustered graph partitions nodes into clusters plus a set of unclustered
// nodes. Each cluster is represented by a [Circle]: its member nodes are
// placed on the circle's perimeter in a canonical circular order, and the
// circle itself is represented in the parent graph by a synthetic placeholder
// [Node]. Edges are classified at construction time as intra-cluster (both
// endpoints in the same cluster) or inter-cluster (everything else, including
// edges touching unclustered nodes).
//
// # Construction
//
// Graphs are built once from flat input with [Build]:
//
//	g, err := cgraph.Build(cgraph.Input{
//	    Nodes:    []cgraph.NodeSpec{{ID: "a", Width: 30, Height: 30}, ...},
//	    Edges:    []cgraph.EdgeSpec{{Source: "a", Target: "b"}, ...},
//	    Clusters: [][]string{{"a", "b"}, {"c", "d"}},
//	})
//
// Nodes and circles are never created or destroyed after construction; the
// layout stages mutate positions, angles, indices, and radii in place.
//
// # Circular order
//
// Each circle owns the canonical circular order of its on-circle nodes. After
// the per-cluster ordering stage assigns angles, [Circle.BuildOrderMatrix]
// snapshots the pairwise clockwise/counter-clockwise relation so that
// reversal and swap decisions can be tested in O(1) without trigonometry.
// [Circle.Reverse] flips the order (and complements the matrix);
// [Circle.SwapAdjacent] exchanges two neighboring nodes.
//
// cgraph is not safe for concurrent use; the layout pipeline is a
// single-threaded run-to-completion transform.
package cgraph
