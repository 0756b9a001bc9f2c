package avsdf

import (
	"math"
	"testing"
)

func square(id string) Node {
	return Node{ID: id, Width: 20, Height: 20}
}

func TestOrderEmpty(t *testing.T) {
	res := New().Order(nil, nil)
	if res.Radius != 0 {
		t.Errorf("Radius = %v, want 0", res.Radius)
	}
	if len(res.Index) != 0 || len(res.Angle) != 0 {
		t.Error("empty input should yield empty maps")
	}
}

func TestOrderSingleNode(t *testing.T) {
	res := New().Order([]Node{{ID: "a", X: 10, Y: 20, Width: 30, Height: 10}}, nil)
	if res.Index["a"] != 0 {
		t.Errorf("Index = %d, want 0", res.Index["a"])
	}
	if res.Radius <= 0 {
		t.Errorf("Radius = %v, want > 0", res.Radius)
	}
	if res.CenterX != 25 || res.CenterY != 25 {
		t.Errorf("center = (%v, %v), want node center (25, 25)", res.CenterX, res.CenterY)
	}
}

func TestOrderCoversAllNodes(t *testing.T) {
	nodes := []Node{square("a"), square("b"), square("c"), square("d")}
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "d"},
	}
	res := New().Order(nodes, edges)

	seen := make(map[int]string, len(nodes))
	for _, n := range nodes {
		idx, ok := res.Index[n.ID]
		if !ok {
			t.Fatalf("node %s missing from result", n.ID)
		}
		if prev, dup := seen[idx]; dup {
			t.Errorf("index %d assigned to both %s and %s", idx, prev, n.ID)
		}
		seen[idx] = n.ID
		if _, ok := res.Angle[n.ID]; !ok {
			t.Errorf("node %s has no angle", n.ID)
		}
	}
	if res.Radius <= 0 {
		t.Errorf("Radius = %v, want > 0", res.Radius)
	}
}

func TestOrderKeepsNeighborsAdjacent(t *testing.T) {
	// Path graph: a-b-c-d-e. AVSDF should place the path contiguously so
	// every edge connects circular neighbors.
	nodes := []Node{square("a"), square("b"), square("c"), square("d"), square("e")}
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "d"},
		{Source: "d", Target: "e"},
	}
	res := New().Order(nodes, edges)

	n := len(nodes)
	for _, e := range edges {
		di := res.Index[e.Source] - res.Index[e.Target]
		if di < 0 {
			di = -di
		}
		if di != 1 && di != n-1 {
			t.Errorf("edge %s-%s spans %d positions, want adjacency", e.Source, e.Target, di)
		}
	}
}

func TestOrderStartsFromSmallestDegree(t *testing.T) {
	// Star plus a pendant: hub has degree 4, leaves degree 1. The traversal
	// must start at a leaf, not the hub.
	nodes := []Node{square("hub"), square("l1"), square("l2"), square("l3"), square("l4")}
	edges := []Edge{
		{Source: "hub", Target: "l1"},
		{Source: "hub", Target: "l2"},
		{Source: "hub", Target: "l3"},
		{Source: "hub", Target: "l4"},
	}
	res := New().Order(nodes, edges)
	if res.Index["hub"] == 0 {
		t.Error("traversal should not start at the highest-degree node")
	}
}

func TestOrderDeterministic(t *testing.T) {
	nodes := []Node{square("a"), square("b"), square("c"), square("d")}
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "c", Target: "d"},
	}
	r1 := New().Order(nodes, edges)
	r2 := New().Order(nodes, edges)
	for id := range r1.Index {
		if r1.Index[id] != r2.Index[id] {
			t.Errorf("index for %s differs between runs", id)
		}
		if r1.Angle[id] != r2.Angle[id] {
			t.Errorf("angle for %s differs between runs", id)
		}
	}
}

func TestOrderAnglesIncrease(t *testing.T) {
	nodes := []Node{square("a"), square("b"), square("c")}
	res := New().Order(nodes, nil)

	angles := make([]float64, len(nodes))
	for id, idx := range res.Index {
		angles[idx] = res.Angle[id]
	}
	for i := 1; i < len(angles); i++ {
		if angles[i] <= angles[i-1] {
			t.Errorf("angles not increasing: %v", angles)
		}
	}
	for _, a := range angles {
		if a < 0 || a >= 2*math.Pi {
			t.Errorf("angle %v outside [0, 2π)", a)
		}
	}
}

func TestOrderRadiusGrowsWithSeparation(t *testing.T) {
	nodes := []Node{square("a"), square("b"), square("c")}
	small := (&Layout{NodeSeparation: 5}).Order(nodes, nil)
	large := (&Layout{NodeSeparation: 50}).Order(nodes, nil)
	if large.Radius <= small.Radius {
		t.Errorf("radius with larger separation = %v, want > %v", large.Radius, small.Radius)
	}
}
