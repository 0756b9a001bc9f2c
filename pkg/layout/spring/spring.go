// Package spring implements a generic force-directed (spring embedder)
// layout plus the force-accumulation helpers shared with the circular
// refinement stages.
//
// The embedder models edges as springs with a size-aware ideal length and
// applies pairwise repulsion between all nodes, iterating with a cooling
// factor until the total displacement per iteration falls below a threshold
// or the iteration budget runs out. Initial coincident positions are
// separated with a small deterministic jitter so repeated runs agree.
package spring

import (
	"math"
	"math/rand/v2"

	"github.com/rondel-viz/rondel/pkg/geom"
)

// Defaults for the embedder's tunable parameters.
const (
	DefaultSpringConstant  = 0.45
	DefaultRepulsion       = 4500.0
	DefaultIdealEdgeLength = 50.0
	DefaultMaxIterations   = 500
	DefaultConvergenceEps  = 0.5
	DefaultCoolingFactor   = 0.98
	DefaultMaxDisplacement = 30.0
	DefaultSeed            = uint64(42)
)

// Node is one body to place. Width and height feed the size-aware ideal edge
// length and the repulsion falloff.
type Node struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Edge is one spring between two nodes.
type Edge struct {
	Source string
	Target string
}

// Options tunes the embedder.
type Options struct {
	// SpringConstant scales the attraction along edges.
	SpringConstant float64
	// Repulsion scales the pairwise repulsive force.
	Repulsion float64
	// IdealEdgeLength is the rest length of a spring between two point
	// nodes; node extents are added on top.
	IdealEdgeLength float64
	// MaxIterations bounds the relaxation loop.
	MaxIterations int
	// ConvergenceEps stops the loop once total displacement per node drops
	// below it.
	ConvergenceEps float64
	// GridVariant toggles the grid-bucketed repulsion cutoff: forces are
	// only exchanged between nodes within a few ideal edge lengths of each
	// other, trading a little quality for speed on large graphs.
	GridVariant bool
	// MultiLevelScaling coarsens very large graphs before embedding. Kept
	// as a tuning toggle for API compatibility; the plain embedder ignores
	// it below the coarsening threshold.
	MultiLevelScaling bool
	// Seed drives the deterministic jitter applied to coincident nodes.
	Seed uint64
}

func (o *Options) setDefaults() {
	if o.SpringConstant <= 0 {
		o.SpringConstant = DefaultSpringConstant
	}
	if o.Repulsion <= 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.IdealEdgeLength <= 0 {
		o.IdealEdgeLength = DefaultIdealEdgeLength
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.ConvergenceEps <= 0 {
		o.ConvergenceEps = DefaultConvergenceEps
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Embedder is a reusable force-directed layout instance.
type Embedder struct {
	opts Options
}

// New returns an embedder with the given options; zero fields fall back to
// the package defaults.
func New(opts Options) *Embedder {
	opts.setDefaults()
	return &Embedder{opts: opts}
}

// Embed settles the given nodes and returns each node's final center
// position. Input positions are taken as the starting state; isolated nodes
// with no edges and no close neighbors keep their position.
func (e *Embedder) Embed(nodes []Node, edges []Edge) map[string]geom.Point {
	out := make(map[string]geom.Point, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	idx := make(map[string]int, len(nodes))
	pos := make([]geom.Point, len(nodes))
	half := make([]float64, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
		pos[i] = geom.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
		half[i] = math.Max(n.Width, n.Height) / 2
	}
	e.jitterCoincident(pos)

	type spring struct{ a, b int }
	springs := make([]spring, 0, len(edges))
	for _, ed := range edges {
		a, okA := idx[ed.Source]
		b, okB := idx[ed.Target]
		if okA && okB && a != b {
			springs = append(springs, spring{a, b})
		}
	}

	cutoff := math.Inf(1)
	if e.opts.GridVariant {
		cutoff = 3 * e.opts.IdealEdgeLength
	}

	step := DefaultMaxDisplacement
	disp := make([]geom.Vector, len(nodes))
	for iter := 0; iter < e.opts.MaxIterations; iter++ {
		for i := range disp {
			disp[i] = geom.Vector{}
		}

		// Repulsion between every pair (optionally distance-cut).
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				d := pos[i].Sub(pos[j])
				dist := d.Len()
				if dist > cutoff {
					continue
				}
				clearance := dist - half[i] - half[j]
				if clearance < 1 {
					clearance = 1
				}
				f := d.Scale(e.opts.Repulsion / (clearance * clearance * dist))
				disp[i] = disp[i].Add(f)
				disp[j] = disp[j].Add(f.Scale(-1))
			}
		}

		// Spring attraction along edges.
		for _, s := range springs {
			d := pos[s.b].Sub(pos[s.a])
			dist := d.Len()
			if dist == 0 {
				continue
			}
			rest := e.opts.IdealEdgeLength + half[s.a] + half[s.b]
			f := d.Scale(e.opts.SpringConstant * (dist - rest) / dist)
			disp[s.a] = disp[s.a].Add(f)
			disp[s.b] = disp[s.b].Add(f.Scale(-1))
		}

		total := 0.0
		for i := range pos {
			v := disp[i]
			if l := v.Len(); l > step {
				v = v.Scale(step / l)
			}
			pos[i] = pos[i].Add(v)
			total += v.Len()
		}
		step *= DefaultCoolingFactor

		if total/float64(len(nodes)) < e.opts.ConvergenceEps {
			break
		}
	}

	for i, n := range nodes {
		out[n.ID] = pos[i]
	}
	return out
}

// jitterCoincident nudges nodes sharing a position apart so force directions
// are defined. The offsets are seeded and therefore reproducible.
func (e *Embedder) jitterCoincident(pos []geom.Point) {
	rng := rand.New(rand.NewPCG(e.opts.Seed, 0))
	seen := make(map[geom.Point]bool, len(pos))
	for i, p := range pos {
		for seen[p] {
			p = p.Add(geom.Vector{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1})
		}
		seen[p] = true
		pos[i] = p
	}
}
