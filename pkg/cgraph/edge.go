package cgraph

// Edge is a connection between two nodes of the clustered graph. Edges are
// classified once, at construction: an edge is intra-cluster iff both
// endpoints carry the same non-sentinel cluster ID. Every other edge,
// including any edge touching an unclustered node, is inter-cluster.
//
// Self-loops are dropped during construction and never appear in the model.
type Edge struct {
	Source *Node
	Target *Node

	// IntraCluster is true when both endpoints are members of the same
	// cluster.
	IntraCluster bool
}

// Other returns the endpoint of the edge that is not n. If n is neither
// endpoint, the target is returned.
func (e *Edge) Other(n *Node) *Node {
	if e.Source == n {
		return e.Target
	}
	return e.Source
}
