package cise

import "github.com/rondel-viz/rondel/pkg/cgraph"

// quotient is the reduced graph of stage 2: one node per cluster placeholder
// and per unclustered node, and one edge per distinct pair of reduced nodes
// with at least one inter-cluster edge between their underlying members. The
// quotient is retained by the engine for the incident-edge reordering and
// the refinement stages.
type quotient struct {
	nodes  []*qnode
	byOrig map[*cgraph.Node]*qnode
	edges  []*qedge
}

type qnode struct {
	orig     *cgraph.Node
	incident []*qedge
}

type qedge struct {
	a, b *qnode
	// members are the original inter-cluster edges this reduced edge
	// collapses.
	members []*cgraph.Edge
	// rep holds the representative circular index per endpoint circle,
	// filled in by the incident-edge reordering.
	rep map[*qnode]float64
}

// other returns the endpoint of the reduced edge that is not qn.
func (qe *qedge) other(qn *qnode) *qnode {
	if qe.a == qn {
		return qe.b
	}
	return qe.a
}

// buildQuotient collapses the clustered graph into its quotient. Edges
// touching an on-circle node are redirected to the circle's placeholder;
// multiple inter-cluster edges between the same pair of reduced nodes
// collapse into one reduced edge that remembers its contributing originals.
func (e *Engine) buildQuotient() *quotient {
	q := &quotient{byOrig: make(map[*cgraph.Node]*qnode)}
	for _, n := range e.g.NonOnCircleNodes() {
		qn := &qnode{orig: n}
		q.nodes = append(q.nodes, qn)
		q.byOrig[n] = qn
	}

	reduced := func(n *cgraph.Node) *qnode {
		if n.IsOnCircle() {
			return q.byOrig[n.Owner.Parent]
		}
		return q.byOrig[n]
	}

	type pairKey [2]*qnode
	pairs := make(map[pairKey]*qedge)
	for _, edge := range e.g.InterClusterEdges() {
		a, b := reduced(edge.Source), reduced(edge.Target)
		if a == b {
			continue
		}
		key := pairKey{a, b}
		if b.orig.ID < a.orig.ID {
			key = pairKey{b, a}
		}
		qe, ok := pairs[key]
		if !ok {
			qe = &qedge{a: key[0], b: key[1], rep: make(map[*qnode]float64)}
			pairs[key] = qe
			q.edges = append(q.edges, qe)
			key[0].incident = append(key[0].incident, qe)
			key[1].incident = append(key[1].incident, qe)
		}
		qe.members = append(qe.members, edge)
	}
	return q
}

// placeQuotient is stage 2: it builds the quotient, inflates cluster
// placeholders, runs the spring embedder on the reduced graph, maps the
// settled positions back onto the placeholders and unclustered nodes, and
// finally re-derives every on-circle node's global position from its
// circle-local offset and the placeholder's new center.
func (e *Engine) placeQuotient() error {
	e.q = e.buildQuotient()

	nodes := make([]DelegateNode, 0, len(e.q.nodes))
	for _, qn := range e.q.nodes {
		r := qn.orig.Rect
		w, h := r.Width, r.Height
		if qn.orig.IsPlaceholder() {
			w *= e.opts.ClusterInflation
			h *= e.opts.ClusterInflation
		}
		center := r.Center()
		nodes = append(nodes, DelegateNode{
			ID:     qn.orig.ID,
			X:      center.X - w/2,
			Y:      center.Y - h/2,
			Width:  w,
			Height: h,
		})
	}
	edges := make([]DelegateEdge, 0, len(e.q.edges))
	for _, qe := range e.q.edges {
		edges = append(edges, DelegateEdge{Source: qe.a.orig.ID, Target: qe.b.orig.ID})
	}

	centers, err := e.opts.Embedder.Embed(nodes, edges)
	if err != nil {
		return err
	}

	for _, qn := range e.q.nodes {
		if p, ok := centers[qn.orig.ID]; ok {
			qn.orig.SetCenter(p)
		}
	}
	for _, c := range e.g.Circles() {
		c.UpdatePositions()
	}

	e.opts.Logger.Debug("quotient placed",
		"nodes", len(e.q.nodes), "edges", len(e.q.edges))
	return nil
}
