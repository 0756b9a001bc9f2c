package cgraph

import (
	"errors"
	"fmt"

	"github.com/rondel-viz/rondel/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Build] when an input node has an
	// empty identifier.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] when two input nodes share
	// an identifier.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEdgeEndpoint is returned by [Build] when an input edge
	// references a node that does not exist.
	ErrUnknownEdgeEndpoint = errors.New("edge references unknown node")

	// ErrUnknownClusterMember is returned by [Build] when a cluster group
	// lists a node that does not exist.
	ErrUnknownClusterMember = errors.New("cluster references unknown node")

	// ErrDuplicateClusterMember is returned by [Build] when a node appears
	// in more than one cluster group.
	ErrDuplicateClusterMember = errors.New("node listed in multiple clusters")
)

// DefaultMargin is the base clearance applied around every circle. Each
// circle additionally receives a fixed widening (see [Build]) to reduce
// visual crowding between neighboring clusters.
const DefaultMargin = 20.0

// circleMarginExtra is added on top of the base margin for every circle.
const circleMarginExtra = 15.0

// NodeSpec is the plain data contract for one input node. The position is
// the node's top-left corner.
type NodeSpec struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// EdgeSpec is the plain data contract for one input edge.
type EdgeSpec struct {
	Source string
	Target string
}

// Input is the flat description a clustered graph is built from. Every node
// appears in at most one cluster group; nodes listed in no group are
// unclustered. Margin overrides [DefaultMargin] when positive.
type Input struct {
	Nodes    []NodeSpec
	Edges    []EdgeSpec
	Clusters [][]string
	Margin   float64
}

// Graph is the clustered graph: root-level nodes (cluster placeholders and
// unclustered nodes), one circle per cluster, and the inter-cluster edge set.
// Intra-cluster edges live on their owning circles.
type Graph struct {
	roots   []*Node
	circles []*Circle
	edges   []*Edge // inter-cluster edges

	byID map[string]*Node // original input IDs only

	onCircle    []*Node
	nonOnCircle []*Node
}

// Build constructs the clustered graph model from flat input. It creates one
// circle (and placeholder node) per cluster group, instantiates member nodes
// on their circles, classifies every edge as intra- or inter-cluster, drops
// self-loops, and flags on-circle nodes touched by inter-cluster edges as
// out-nodes. Finally all nodes are partitioned into on-circle and
// non-on-circle sets for reuse by the layout stages.
//
// An edge or cluster group referencing an unknown node ID is a fatal
// input-validation failure; no partial graph is returned.
func Build(in Input) (*Graph, error) {
	margin := in.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}

	g := &Graph{byID: make(map[string]*Node, len(in.Nodes))}

	specs := make(map[string]NodeSpec, len(in.Nodes))
	for _, s := range in.Nodes {
		if s.ID == "" {
			return nil, ErrInvalidNodeID
		}
		if _, dup := specs[s.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, s.ID)
		}
		specs[s.ID] = s
	}

	clustered := make(map[string]int, len(in.Nodes))
	for clusterID, members := range in.Clusters {
		placeholder := &Node{
			ID:        fmt.Sprintf("__cluster_%d__", clusterID),
			ClusterID: Unclustered,
		}
		circle := &Circle{
			Parent:    placeholder,
			ClusterID: clusterID,
			Margin:    margin + circleMarginExtra,
		}
		placeholder.Child = circle
		g.roots = append(g.roots, placeholder)
		g.circles = append(g.circles, circle)

		for _, id := range members {
			s, ok := specs[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownClusterMember, id)
			}
			if prev, seen := clustered[id]; seen {
				return nil, fmt.Errorf("%w: %s (clusters %d and %d)", ErrDuplicateClusterMember, id, prev, clusterID)
			}
			clustered[id] = clusterID

			n := &Node{
				ID:        s.ID,
				Rect:      rectOf(s),
				ClusterID: clusterID,
				Owner:     circle,
				On:        &OnCircle{},
			}
			circle.nodes = append(circle.nodes, n)
			g.byID[id] = n
		}
	}

	for _, s := range in.Nodes {
		if _, isClustered := clustered[s.ID]; isClustered {
			continue
		}
		n := &Node{ID: s.ID, Rect: rectOf(s), ClusterID: Unclustered}
		g.roots = append(g.roots, n)
		g.byID[s.ID] = n
	}

	for _, e := range in.Edges {
		src, ok := g.byID[e.Source]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEdgeEndpoint, e.Source)
		}
		dst, ok := g.byID[e.Target]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEdgeEndpoint, e.Target)
		}
		if src == dst {
			continue // self-loop
		}
		g.addEdge(src, dst)
	}

	for _, c := range g.circles {
		c.MarkReversible()
	}
	g.partition()
	return g, nil
}

func rectOf(s NodeSpec) geom.Rect {
	return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// addEdge classifies and attaches one resolved, non-loop edge.
func (g *Graph) addEdge(src, dst *Node) {
	intra := src.ClusterID != Unclustered && src.ClusterID == dst.ClusterID
	e := &Edge{Source: src, Target: dst, IntraCluster: intra}

	if intra {
		c := src.Owner
		c.intraEdges = append(c.intraEdges, e)
		src.On.IntraEdges = append(src.On.IntraEdges, e)
		dst.On.IntraEdges = append(dst.On.IntraEdges, e)
		return
	}

	g.edges = append(g.edges, e)
	for _, n := range []*Node{src, dst} {
		if n.On == nil {
			continue
		}
		n.On.InterEdges = append(n.On.InterEdges, e)
		n.Owner.interEdges = append(n.Owner.interEdges, e)
		n.Owner.markOutNode(n)
	}
}

// partition splits all nodes into the on-circle and non-on-circle sets
// reused by every later stage.
func (g *Graph) partition() {
	g.onCircle = g.onCircle[:0]
	g.nonOnCircle = g.nonOnCircle[:0]
	for _, n := range g.roots {
		g.nonOnCircle = append(g.nonOnCircle, n)
	}
	for _, c := range g.circles {
		g.onCircle = append(g.onCircle, c.nodes...)
	}
}

// Circles returns all cluster circles in cluster-ID order.
func (g *Graph) Circles() []*Circle { return g.circles }

// RootNodes returns the root-level nodes: cluster placeholders and
// unclustered nodes.
func (g *Graph) RootNodes() []*Node { return g.roots }

// InterClusterEdges returns every edge whose endpoints are not members of a
// common cluster.
func (g *Graph) InterClusterEdges() []*Edge { return g.edges }

// OnCircleNodes returns every node placed on some circle's perimeter.
func (g *Graph) OnCircleNodes() []*Node { return g.onCircle }

// NonOnCircleNodes returns every node that is not on a circle: unclustered
// nodes and cluster placeholders.
func (g *Graph) NonOnCircleNodes() []*Node { return g.nonOnCircle }

// Node returns the node created for the given input ID, or nil if the ID is
// unknown. Cluster placeholders are not reachable by ID.
func (g *Graph) Node(id string) *Node { return g.byID[id] }

// NodeCount returns the number of original input nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.byID) }
