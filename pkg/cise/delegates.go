package cise

import (
	"github.com/rondel-viz/rondel/pkg/geom"
	"github.com/rondel-viz/rondel/pkg/layout/avsdf"
	"github.com/rondel-viz/rondel/pkg/layout/spring"
)

// avsdfOrderer adapts the AVSDF single-cluster layout to the engine's
// delegate contract.
type avsdfOrderer struct {
	layout *avsdf.Layout
}

func defaultOrderer(o *Options) CircleOrderer {
	return &avsdfOrderer{layout: &avsdf.Layout{NodeSeparation: o.NodeSeparation}}
}

func (a *avsdfOrderer) OrderCircle(nodes []DelegateNode, edges []DelegateEdge) (CircleOrder, error) {
	ns := make([]avsdf.Node, len(nodes))
	for i, n := range nodes {
		ns[i] = avsdf.Node{ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	}
	es := make([]avsdf.Edge, len(edges))
	for i, e := range edges {
		es[i] = avsdf.Edge{Source: e.Source, Target: e.Target}
	}

	res := a.layout.Order(ns, es)
	return CircleOrder{
		Index:  res.Index,
		Angle:  res.Angle,
		Radius: res.Radius,
		Center: geom.Point{X: res.CenterX, Y: res.CenterY},
	}, nil
}

// springEmbedder adapts the force-directed embedder to the engine's delegate
// contract.
type springEmbedder struct {
	embedder *spring.Embedder
}

func defaultEmbedder(o *Options) Embedder {
	return &springEmbedder{embedder: spring.New(spring.Options{
		SpringConstant:  o.SpringConstant,
		IdealEdgeLength: o.IdealEdgeLength,
		Seed:            o.Seed,
	})}
}

func (s *springEmbedder) Embed(nodes []DelegateNode, edges []DelegateEdge) (map[string]geom.Point, error) {
	ns := make([]spring.Node, len(nodes))
	for i, n := range nodes {
		ns[i] = spring.Node{ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	}
	es := make([]spring.Edge, len(edges))
	for i, e := range edges {
		es[i] = spring.Edge{Source: e.Source, Target: e.Target}
	}
	return s.embedder.Embed(ns, es), nil
}
