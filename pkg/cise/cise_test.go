package cise

import (
	"math"
	"sort"
	"testing"

	"github.com/rondel-viz/rondel/pkg/cgraph"
	"github.com/rondel-viz/rondel/pkg/geom"
)

func twoClusterInput() cgraph.Input {
	node := func(id string) cgraph.NodeSpec {
		return cgraph.NodeSpec{ID: id, Width: 20, Height: 20}
	}
	return cgraph.Input{
		Nodes: []cgraph.NodeSpec{
			node("a1"), node("a2"), node("a3"), node("a4"),
			node("b1"), node("b2"), node("b3"), node("b4"),
			node("solo"),
		},
		Edges: []cgraph.EdgeSpec{
			{Source: "a1", Target: "a2"},
			{Source: "a2", Target: "a3"},
			{Source: "a3", Target: "a4"},
			{Source: "b1", Target: "b2"},
			{Source: "b2", Target: "b3"},
			{Source: "b3", Target: "b4"},
			{Source: "a1", Target: "b1"},
			{Source: "a3", Target: "b3"},
		},
		Clusters: [][]string{
			{"a1", "a2", "a3", "a4"},
			{"b1", "b2", "b3", "b4"},
		},
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.NodeSeparation != DefaultNodeSeparation {
		t.Errorf("NodeSeparation = %v, want %v", opts.NodeSeparation, DefaultNodeSeparation)
	}
	if opts.FlipIterations != DefaultFlipIterations {
		t.Errorf("FlipIterations = %v, want %v", opts.FlipIterations, DefaultFlipIterations)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if opts.Orderer == nil || opts.Embedder == nil {
		t.Error("delegates should default to the built-in implementations")
	}

	// Idempotent: a second call keeps the values.
	sep := opts.NodeSeparation
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
	if opts.NodeSeparation != sep {
		t.Error("second validation changed NodeSeparation")
	}
}

func TestOptionsRejectNegatives(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative separation", func(o *Options) { o.NodeSeparation = -1 }},
		{"negative inflation", func(o *Options) { o.ClusterInflation = -0.5 }},
		{"negative edge length", func(o *Options) { o.IdealEdgeLength = -10 }},
		{"negative spring constant", func(o *Options) { o.SpringConstant = -0.1 }},
		{"negative circular force", func(o *Options) { o.CircularForce = -0.1 }},
		{"negative flip iterations", func(o *Options) { o.FlipIterations = -3 }},
		{"negative swap iterations", func(o *Options) { o.SwapIterations = -1 }},
		{"negative settle iterations", func(o *Options) { o.SettleIterations = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			tt.mutate(&opts)
			if err := opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStageString(t *testing.T) {
	if StageCircleOrdering.String() == "" || StageDone.String() == "" {
		t.Error("stages should have readable names")
	}
	if StageFlip.String() == StageSwap.String() {
		t.Error("distinct stages should have distinct names")
	}
}

func TestRunEndToEnd(t *testing.T) {
	g, err := cgraph.Build(twoClusterInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	engine, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stats, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Circles != 2 {
		t.Errorf("stats.Circles = %d, want 2", stats.Circles)
	}

	for _, c := range g.Circles() {
		if c.Radius <= 0 {
			t.Errorf("cluster %d radius = %v, want > 0", c.ClusterID, c.Radius)
		}
		center := c.Center()
		for _, n := range c.Nodes() {
			d := n.Center().Dist(center)
			if math.Abs(d-c.Radius) > 1e-6 {
				t.Errorf("node %s at distance %v from center, want %v", n.ID, d, c.Radius)
			}
		}
	}

	// All finite, pairwise distinct positions.
	seen := make(map[[2]float64]string)
	for _, id := range []string{"a1", "a2", "a3", "a4", "b1", "b2", "b3", "b4", "solo"} {
		n := g.Node(id)
		p := n.Center()
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("node %s has non-finite position %+v", id, p)
		}
		key := [2]float64{p.X, p.Y}
		if prev, dup := seen[key]; dup {
			t.Errorf("nodes %s and %s share position %+v", prev, id, p)
		}
		seen[key] = id
	}

	// The two circle centers must not coincide.
	c0, c1 := g.Circles()[0], g.Circles()[1]
	if c0.Center().Dist(c1.Center()) < 1 {
		t.Error("circle centers should be separated by the embedder")
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() map[string][2]float64 {
		g, err := cgraph.Build(twoClusterInput())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		engine, err := New(g, Options{Seed: 11})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, err := engine.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		out := make(map[string][2]float64)
		for _, id := range []string{"a1", "b2", "solo"} {
			p := g.Node(id).Center()
			out[id] = [2]float64{p.X, p.Y}
		}
		return out
	}

	r1, r2 := run(), run()
	for id := range r1 {
		if r1[id] != r2[id] {
			t.Errorf("position of %s differs between identical runs: %v vs %v", id, r1[id], r2[id])
		}
	}
}

func TestRunEmitsProgress(t *testing.T) {
	g, err := cgraph.Build(twoClusterInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var events []ProgressEvent
	engine, err := New(g, Options{
		Progress: func(ev ProgressEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) == 0 {
		t.Fatal("no progress events emitted")
	}
	stages := make(map[Stage]bool)
	for _, ev := range events {
		stages[ev.Stage] = true
		if ev.Iteration < 0 {
			t.Errorf("negative iteration in event %+v", ev)
		}
	}
	if !stages[StageFlip] {
		t.Error("no progress events for the flip stage")
	}
}

func TestRunSkipReorder(t *testing.T) {
	g, err := cgraph.Build(twoClusterInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	engine, err := New(g, Options{SkipReorder: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run with SkipReorder: %v", err)
	}
}

func TestRunSingleClusterNoInterEdges(t *testing.T) {
	// One cluster, no external context: no order matrices, no reversals.
	g, err := cgraph.Build(cgraph.Input{
		Nodes: []cgraph.NodeSpec{
			{ID: "a", Width: 20, Height: 20},
			{ID: "b", Width: 20, Height: 20},
			{ID: "c", Width: 20, Height: 20},
		},
		Edges: []cgraph.EdgeSpec{
			{Source: "a", Target: "b"},
		},
		Clusters: [][]string{{"a", "b", "c"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	engine, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stats, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Reversals != 0 {
		t.Errorf("Reversals = %d, want 0 without inter-cluster edges", stats.Reversals)
	}
	c := g.Circles()[0]
	if c.MayBeReversed {
		t.Error("circle without inter edges should not be reversible")
	}
	if c.HasOrderMatrix() {
		t.Error("order matrix should not be built without inter edges")
	}
}

// identityOrderer reads the circular arrangement already present in the
// input: centroid as center, distance to the first node as radius, angles
// from the current positions, indices by ascending angle.
type identityOrderer struct{}

func (identityOrderer) OrderCircle(nodes []DelegateNode, edges []DelegateEdge) (CircleOrder, error) {
	res := CircleOrder{
		Index: make(map[string]int, len(nodes)),
		Angle: make(map[string]float64, len(nodes)),
	}
	for _, n := range nodes {
		res.Center.X += (n.X + n.Width/2) / float64(len(nodes))
		res.Center.Y += (n.Y + n.Height/2) / float64(len(nodes))
	}
	type slot struct {
		id    string
		angle float64
	}
	slots := make([]slot, 0, len(nodes))
	for _, n := range nodes {
		c := geom.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
		res.Radius = c.Dist(res.Center)
		slots = append(slots, slot{n.ID, c.Sub(res.Center).Angle()})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].angle < slots[j].angle })
	for i, s := range slots {
		res.Index[s.id] = i
		res.Angle[s.id] = s.angle
	}
	return res, nil
}

// identityEmbedder returns every node's current center unchanged.
type identityEmbedder struct{}

func (identityEmbedder) Embed(nodes []DelegateNode, edges []DelegateEdge) (map[string]geom.Point, error) {
	out := make(map[string]geom.Point, len(nodes))
	for _, n := range nodes {
		out[n.ID] = geom.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
	}
	return out, nil
}

func TestRunIdentityDelegatesIdempotent(t *testing.T) {
	// Cluster members already on a circle of radius 50 around (100, 100),
	// plus a connected unclustered node. With identity delegates and
	// refinement disabled, running the pipeline must keep every position.
	node := func(id string, cx, cy float64) cgraph.NodeSpec {
		return cgraph.NodeSpec{ID: id, X: cx - 10, Y: cy - 10, Width: 20, Height: 20}
	}
	input := cgraph.Input{
		Nodes: []cgraph.NodeSpec{
			node("a1", 150, 100),
			node("a2", 100, 150),
			node("a3", 50, 100),
			node("a4", 100, 50),
			node("solo", 300, 100),
		},
		Edges: []cgraph.EdgeSpec{
			{Source: "a1", Target: "a2"},
			{Source: "a2", Target: "a3"},
			{Source: "a1", Target: "solo"},
		},
		Clusters: [][]string{{"a1", "a2", "a3", "a4"}},
	}
	want := map[string]geom.Point{
		"a1": {X: 150, Y: 100},
		"a2": {X: 100, Y: 150},
		"a3": {X: 50, Y: 100},
		"a4": {X: 100, Y: 50},
		"solo": {X: 300, Y: 100},
	}

	g, err := cgraph.Build(input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for pass := 1; pass <= 2; pass++ {
		engine, err := New(g, Options{
			Orderer:        identityOrderer{},
			Embedder:       identityEmbedder{},
			SkipRefinement: true,
		})
		if err != nil {
			t.Fatalf("pass %d New: %v", pass, err)
		}
		stats, err := engine.Run()
		if err != nil {
			t.Fatalf("pass %d Run: %v", pass, err)
		}
		if stats.FlipIterations != 0 || stats.SwapIterations != 0 || stats.SettleIterations != 0 {
			t.Errorf("pass %d ran refinement iterations with SkipRefinement: %+v", pass, stats)
		}
		for id, p := range want {
			got := g.Node(id).Center()
			if got.Dist(p) > 1e-9 {
				t.Errorf("pass %d moved node %s: got %+v, want %+v", pass, id, got, p)
			}
		}
	}
}

func TestRunIsolatedNodeKeepsPosition(t *testing.T) {
	g, err := cgraph.Build(cgraph.Input{
		Nodes: []cgraph.NodeSpec{{ID: "only", X: 30, Y: 40, Width: 20, Height: 20}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	engine, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := g.Node("only").Center()
	if got != (geom.Point{X: 40, Y: 50}) {
		t.Errorf("isolated node moved: got %+v, want {40 50}", got)
	}
}

func TestRunEmptyGraph(t *testing.T) {
	g, err := cgraph.Build(cgraph.Input{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	engine, err := New(g, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run on empty graph: %v", err)
	}
}
