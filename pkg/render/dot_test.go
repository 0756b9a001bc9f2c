package render

import (
	"strings"
	"testing"

	"github.com/rondel-viz/rondel/pkg/graph"
)

func testLayout() graph.Layout {
	return graph.Layout{
		Graph: graph.Graph{
			Nodes: []graph.Node{
				{ID: "a", Label: "Alpha", Width: 72, Height: 36},
				{ID: "b", Width: 72, Height: 36},
				{ID: "solo", Width: 72, Height: 36},
			},
			Edges: []graph.Edge{
				{Source: "a", Target: "b"},
			},
			Clusters: [][]string{{"a", "b"}},
		},
		Positions: []graph.Position{
			{ID: "a", X: 100, Y: 50},
			{ID: "b", X: 300, Y: 50},
			{ID: "solo", X: 500, Y: 200},
		},
	}
}

func TestDOTPinsPositions(t *testing.T) {
	out, err := DOT(testLayout())
	if err != nil {
		t.Fatalf("DOT: %v", err)
	}
	dot := string(out)

	if !strings.Contains(dot, "graph G {") {
		t.Error("missing graph header")
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("missing neato layout directive")
	}

	// Center of node a is (100+36, 50+18) with the vertical axis flipped.
	if !strings.Contains(dot, `pos="136.00,-68.00!"`) {
		t.Errorf("missing pinned position for a:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="336.00,-68.00!"`) {
		t.Errorf("missing pinned position for b:\n%s", dot)
	}

	// A 72x36 point node is 1.000x0.500 inches.
	if !strings.Contains(dot, "width=1.000") || !strings.Contains(dot, "height=0.500") {
		t.Error("missing inch-based size attributes")
	}
	if !strings.Contains(dot, "fixedsize=true") {
		t.Error("missing fixedsize attribute")
	}
}

func TestDOTClusterColors(t *testing.T) {
	out, err := DOT(testLayout())
	if err != nil {
		t.Fatalf("DOT: %v", err)
	}
	dot := string(out)

	first := `fillcolor="` + clusterPalette[0] + `"`
	if strings.Count(dot, first) != 2 {
		t.Errorf("expected both cluster members to share %s:\n%s", first, dot)
	}

	// The unclustered node keeps the default fill.
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"solo"`) && strings.Contains(line, "fillcolor=") {
			t.Errorf("unclustered node should not get a palette color: %s", line)
		}
	}
}

func TestDOTLabels(t *testing.T) {
	out, err := DOT(testLayout())
	if err != nil {
		t.Fatalf("DOT: %v", err)
	}
	dot := string(out)

	if !strings.Contains(dot, `label="Alpha"`) {
		t.Error("node with explicit label should use it")
	}
	if !strings.Contains(dot, `label="b"`) {
		t.Error("node without label should fall back to its ID")
	}
}

func TestDOTUndirectedEdges(t *testing.T) {
	out, err := DOT(testLayout())
	if err != nil {
		t.Fatalf("DOT: %v", err)
	}
	if !strings.Contains(string(out), `"a" -- "b";`) {
		t.Error("missing undirected edge")
	}
}

func TestDOTMissingPosition(t *testing.T) {
	l := testLayout()
	l.Positions = l.Positions[:1]
	if _, err := DOT(l); err == nil {
		t.Error("expected error for node without a position")
	}
}

func TestPaletteCycles(t *testing.T) {
	l := graph.Layout{}
	l.Graph.Clusters = make([][]string, len(clusterPalette)+1)
	for i := range l.Graph.Clusters {
		id := string(rune('a' + i))
		l.Graph.Nodes = append(l.Graph.Nodes, graph.Node{ID: id, Width: 10, Height: 10})
		l.Graph.Clusters[i] = []string{id}
		l.Positions = append(l.Positions, graph.Position{ID: id, X: float64(i) * 20})
	}

	out, err := DOT(l)
	if err != nil {
		t.Fatalf("DOT: %v", err)
	}
	// Cluster len(palette) wraps back to the first color.
	first := `fillcolor="` + clusterPalette[0] + `"`
	if strings.Count(string(out), first) != 2 {
		t.Errorf("expected palette to wrap around:\n%s", out)
	}
}
