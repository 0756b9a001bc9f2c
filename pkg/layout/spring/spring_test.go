package spring

import (
	"math"
	"testing"

	"github.com/rondel-viz/rondel/pkg/geom"
)

func TestEmbedEmpty(t *testing.T) {
	out := New(Options{}).Embed(nil, nil)
	if len(out) != 0 {
		t.Errorf("Embed(nil) = %v, want empty", out)
	}
}

func TestEmbedSingleNodeStaysPut(t *testing.T) {
	out := New(Options{}).Embed([]Node{{ID: "a", X: 100, Y: 50, Width: 20, Height: 10}}, nil)
	p := out["a"]
	if p.X != 110 || p.Y != 55 {
		t.Errorf("single node at %+v, want its center (110, 55)", p)
	}
}

func TestEmbedEdgeApproachesRestLength(t *testing.T) {
	nodes := []Node{
		{ID: "a", X: 0, Y: 0, Width: 20, Height: 20},
		{ID: "b", X: 400, Y: 0, Width: 20, Height: 20},
	}
	edges := []Edge{{Source: "a", Target: "b"}}

	opts := Options{IdealEdgeLength: 50}
	out := New(opts).Embed(nodes, edges)

	dist := out["a"].Dist(out["b"])
	rest := 50.0 + 10 + 10 // ideal plus half extents
	if math.Abs(dist-rest) > rest*0.25 {
		t.Errorf("settled distance = %v, want within 25%% of %v", dist, rest)
	}
}

func TestEmbedSeparatesCoincidentNodes(t *testing.T) {
	nodes := []Node{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "b", X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "c", X: 0, Y: 0, Width: 10, Height: 10},
	}
	out := New(Options{}).Embed(nodes, nil)

	ids := []string{"a", "b", "c"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if out[ids[i]].Dist(out[ids[j]]) < 1 {
				t.Errorf("nodes %s and %s still coincident", ids[i], ids[j])
			}
		}
	}
}

func TestEmbedDeterministic(t *testing.T) {
	nodes := []Node{
		{ID: "a", X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "b", X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "c", X: 50, Y: 50, Width: 10, Height: 10},
	}
	edges := []Edge{{Source: "a", Target: "c"}}

	r1 := New(Options{Seed: 7}).Embed(nodes, edges)
	r2 := New(Options{Seed: 7}).Embed(nodes, edges)
	for id := range r1 {
		if r1[id] != r2[id] {
			t.Errorf("position of %s differs between identical runs", id)
		}
	}
}

func TestCircularPullIsTangential(t *testing.T) {
	center := geom.Point{X: 0, Y: 0}
	node := geom.Point{X: 100, Y: 0} // radial direction is +X

	// A target above the node pulls counter-clockwise.
	f := CircularPull(center, node, []geom.Point{{X: 100, Y: 100}}, 1.0)

	radial := node.Sub(center)
	if math.Abs(f.Dot(radial)) > 1e-9 {
		t.Errorf("pull has radial component: %v", f.Dot(radial))
	}
	if f.Y <= 0 {
		t.Errorf("pull should point counter-clockwise (+Y), got %+v", f)
	}
}

func TestCircularPullScalesWithFactor(t *testing.T) {
	center := geom.Point{}
	node := geom.Point{X: 10, Y: 0}
	targets := []geom.Point{{X: 10, Y: 50}}

	f1 := CircularPull(center, node, targets, 1.0)
	f2 := CircularPull(center, node, targets, 2.0)
	if math.Abs(f2.Len()-2*f1.Len()) > 1e-9 {
		t.Errorf("doubling factor should double the pull: %v vs %v", f1.Len(), f2.Len())
	}
}

func TestTangentialDeltaCapped(t *testing.T) {
	radial := geom.Vector{X: 1, Y: 0}
	force := geom.Vector{X: 0, Y: 1000}

	d := TangentialDelta(force, radial, 10, 0.2)
	if math.Abs(d) > 0.2+1e-9 {
		t.Errorf("delta = %v, want capped at 0.2", d)
	}

	// Opposite force caps at the negative bound.
	d = TangentialDelta(geom.Vector{X: 0, Y: -1000}, radial, 10, 0.2)
	if math.Abs(d+0.2) > 1e-9 {
		t.Errorf("delta = %v, want -0.2", d)
	}
}

func TestTangentialDeltaDirection(t *testing.T) {
	radial := geom.Vector{X: 1, Y: 0}

	if d := TangentialDelta(geom.Vector{X: 0, Y: 0.5}, radial, 100, 1); d <= 0 {
		t.Errorf("counter-clockwise force should give positive delta, got %v", d)
	}
	if d := TangentialDelta(geom.Vector{X: 5, Y: 0}, radial, 100, 1); d != 0 {
		t.Errorf("purely radial force should give zero delta, got %v", d)
	}
}
