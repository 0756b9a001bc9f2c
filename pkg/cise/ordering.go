package cise

import "fmt"

// orderCircles is stage 1: every circle's member set is handed to the
// single-cluster orderer as a transient delegate problem, and the resulting
// index, angle, and radius are absorbed back into the circle. The circle's
// canonical node order is then re-sorted by index and the placeholder node
// is resized to fully enclose the perimeter for the placement stage.
//
// Circles with no members are skipped and keep radius zero.
func (e *Engine) orderCircles() error {
	for _, c := range e.g.Circles() {
		if c.Size() == 0 {
			continue
		}

		nodes := make([]DelegateNode, 0, c.Size())
		for _, n := range c.Nodes() {
			nodes = append(nodes, DelegateNode{
				ID:     n.ID,
				X:      n.Rect.X,
				Y:      n.Rect.Y,
				Width:  n.Rect.Width,
				Height: n.Rect.Height,
			})
		}
		edges := make([]DelegateEdge, 0, len(c.IntraClusterEdges()))
		for _, edge := range c.IntraClusterEdges() {
			edges = append(edges, DelegateEdge{Source: edge.Source.ID, Target: edge.Target.ID})
		}

		res, err := e.opts.Orderer.OrderCircle(nodes, edges)
		if err != nil {
			return err
		}

		for _, n := range c.Nodes() {
			idx, ok := res.Index[n.ID]
			if !ok {
				return fmt.Errorf("circle orderer returned no index for node %s", n.ID)
			}
			n.On.Index = idx
			n.On.Angle = res.Angle[n.ID]
		}
		c.Radius = res.Radius
		c.SortByIndex()

		// The placeholder must fully enclose the circle, its margin, and
		// the widest node straddling the perimeter.
		d := 2*(c.Radius+c.Margin) + c.MaxNodeDim()
		c.Parent.Rect.Width = d
		c.Parent.Rect.Height = d
		c.Parent.SetCenter(res.Center)
		c.UpdatePositions()

		e.opts.Logger.Debug("circle ordered",
			"cluster", c.ClusterID, "nodes", c.Size(), "radius", c.Radius)
	}
	return nil
}
