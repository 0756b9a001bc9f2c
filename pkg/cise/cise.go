// Package cise implements the multi-phase circular layout engine for
// clustered graphs.
//
// The engine places each cluster's members on a circle and arranges the
// circles (plus unclustered nodes) to heuristically minimize inter-cluster
// edge crossings while preserving the structure inside each circle. The
// pipeline runs in fixed stages:
//
//  1. Per-cluster ordering: each circle's members are handed to a
//     single-cluster circular layout (AVSDF by default) which assigns a
//     circular index, an angle, and the circle's radius.
//  2. Quotient placement: clusters collapse to inflated placeholder nodes
//     and a spring embedder positions the reduced graph; member positions
//     are re-derived from their circle-local offsets.
//  3. Flip-enabled relaxation: forces plus whole-circle order reversal when
//     it reduces estimated inter-cluster crossings.
//  4. Swap-enabled relaxation: forces plus adjacent on-circle node swaps
//     that strictly reduce inter-cluster crossings without increasing
//     intra-cluster crossings.
//  5. Settling: pure force relaxation with the ordering frozen.
//
// Between stages 2 and 3 the engine optionally reorders each cluster's
// incident quotient edges with a wraparound-robust circular mean, and
// prepares the per-circle order matrices used for O(1) flip and swap tests.
//
// The engine is a deterministic, single-threaded, run-to-completion
// transform over a [cgraph.Graph]; it produces positions only and renders
// nothing. External collaborators (the single-cluster orderer and the spring
// embedder) are consumed through the [CircleOrderer] and [Embedder]
// interfaces and their failures are propagated to the caller unmodified.
package cise

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/rondel-viz/rondel/pkg/cgraph"
	"github.com/rondel-viz/rondel/pkg/geom"
)

// Default tuning parameters. The iteration budgets and epsilon are
// calibrated empirically; they are deliberately conservative so the
// refinement stages terminate quickly on small graphs.
const (
	DefaultNodeSeparation   = 12.0
	DefaultClusterInflation = 1.2
	DefaultIdealEdgeLength  = 50.0
	DefaultSpringConstant   = 0.45
	DefaultCircularForce    = 0.3
	DefaultFlipIterations   = 60
	DefaultSwapIterations   = 60
	DefaultSettleIterations = 40
	DefaultConvergenceEps   = 0.5
	DefaultSeed             = uint64(42)
)

// Stage identifies the engine's current pipeline stage. Run threads the
// stage value through each phase instead of mutating shared step counters.
type Stage int

const (
	StageCircleOrdering Stage = iota
	StagePlacement
	StageReorder
	StageReversalPrep
	StageFlip
	StageSwap
	StageSettle
	StageDone
)

// String returns a short human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageCircleOrdering:
		return "circle-ordering"
	case StagePlacement:
		return "placement"
	case StageReorder:
		return "edge-reorder"
	case StageReversalPrep:
		return "reversal-prep"
	case StageFlip:
		return "flip"
	case StageSwap:
		return "swap"
	case StageSettle:
		return "settle"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// DelegateNode is the narrow node contract handed to external collaborators.
// X and Y are the top-left corner.
type DelegateNode struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// DelegateEdge is the narrow edge contract handed to external collaborators.
type DelegateEdge struct {
	Source string
	Target string
}

// CircleOrder is the result of a single-cluster circular layout: per-node
// circular index and angle, plus the enclosing circle's radius and center.
type CircleOrder struct {
	Index  map[string]int
	Angle  map[string]float64
	Radius float64
	Center geom.Point
}

// CircleOrderer computes the initial angular ordering of one cluster's
// nodes. Implementations receive a transient copy of the cluster's nodes and
// intra-cluster edges and must not retain them.
type CircleOrderer interface {
	OrderCircle(nodes []DelegateNode, edges []DelegateEdge) (CircleOrder, error)
}

// Embedder settles a node/edge set with fixed sizes and returns per-node
// center positions keyed by node ID.
type Embedder interface {
	Embed(nodes []DelegateNode, edges []DelegateEdge) (map[string]geom.Point, error)
}

// ProgressEvent reports one refinement iteration to an observer.
type ProgressEvent struct {
	Stage        Stage
	Iteration    int
	Displacement float64
}

// Options tunes the engine. The zero value is usable: ValidateAndSetDefaults
// fills in the documented defaults and wires the default AVSDF orderer and
// spring embedder.
type Options struct {
	// NodeSeparation is the clearance between neighboring nodes on a
	// circle's perimeter.
	NodeSeparation float64
	// ClusterInflation scales cluster placeholder sizes in the quotient
	// graph to bias the embedder toward longer inter-cluster edges.
	ClusterInflation float64
	// IdealEdgeLength is the rest length of quotient-graph springs.
	IdealEdgeLength float64
	// SpringConstant scales spring attraction in placement and refinement.
	SpringConstant float64
	// CircularForce scales the tangential pull inter-cluster edges exert on
	// on-circle nodes during refinement.
	CircularForce float64
	// FlipIterations, SwapIterations, and SettleIterations bound the three
	// refinement stages.
	FlipIterations   int
	SwapIterations   int
	SettleIterations int
	// ConvergenceEps ends a refinement stage once the average displacement
	// per node in one iteration drops below it.
	ConvergenceEps float64
	// SkipReorder disables the incident-edge reordering refinement between
	// placement and flip.
	SkipReorder bool
	// SkipRefinement disables the flip, swap, and settle stages entirely,
	// the explicit way to request a zero iteration budget (a zero budget
	// field means "use the default"). Positions are then exactly what the
	// ordering and placement stages produced.
	SkipRefinement bool
	// Seed drives the embedder's deterministic jitter.
	Seed uint64

	// Logger receives stage-level debug output; nil means discard.
	Logger *log.Logger
	// Progress, when non-nil, observes every refinement iteration.
	Progress func(ProgressEvent)

	// Orderer and Embedder override the external collaborators; nil wires
	// the defaults.
	Orderer  CircleOrderer
	Embedder Embedder

	validated bool
}

// ValidateAndSetDefaults fills unset options with the package defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.NodeSeparation < 0 || o.ClusterInflation < 0 || o.IdealEdgeLength < 0 ||
		o.SpringConstant < 0 || o.CircularForce < 0 {
		return fmt.Errorf("layout parameters must not be negative")
	}
	if o.FlipIterations < 0 || o.SwapIterations < 0 || o.SettleIterations < 0 {
		return fmt.Errorf("iteration counts must not be negative")
	}
	if o.NodeSeparation == 0 {
		o.NodeSeparation = DefaultNodeSeparation
	}
	if o.ClusterInflation == 0 {
		o.ClusterInflation = DefaultClusterInflation
	}
	if o.IdealEdgeLength == 0 {
		o.IdealEdgeLength = DefaultIdealEdgeLength
	}
	if o.SpringConstant == 0 {
		o.SpringConstant = DefaultSpringConstant
	}
	if o.CircularForce == 0 {
		o.CircularForce = DefaultCircularForce
	}
	if o.FlipIterations == 0 {
		o.FlipIterations = DefaultFlipIterations
	}
	if o.SwapIterations == 0 {
		o.SwapIterations = DefaultSwapIterations
	}
	if o.SettleIterations == 0 {
		o.SettleIterations = DefaultSettleIterations
	}
	if o.ConvergenceEps <= 0 {
		o.ConvergenceEps = DefaultConvergenceEps
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Orderer == nil {
		o.Orderer = defaultOrderer(o)
	}
	if o.Embedder == nil {
		o.Embedder = defaultEmbedder(o)
	}
	o.validated = true
	return nil
}

// Stats summarizes one engine run.
type Stats struct {
	Circles           int
	Reversals         int
	Swaps             int
	FlipIterations    int
	SwapIterations    int
	SettleIterations  int
	FinalDisplacement float64
}

// Engine runs the multi-phase circular layout over one clustered graph.
// An engine is single-use: create one per Run.
type Engine struct {
	g    *cgraph.Graph
	opts Options
	q    *quotient

	stats Stats
}

// New creates an engine for the given graph. Options are validated and
// defaulted; an invalid option set is the only error.
func New(g *cgraph.Graph, opts Options) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Engine{g: g, opts: opts}, nil
}

// Run executes the full pipeline and returns run statistics. Delegate
// failures abort the run and are returned unmodified. Non-convergence within
// the iteration budgets is not an error; the best layout found is kept on
// the graph.
func (e *Engine) Run() (Stats, error) {
	e.stats.Circles = len(e.g.Circles())

	e.opts.Logger.Debug("stage start", "stage", StageCircleOrdering)
	if err := e.orderCircles(); err != nil {
		return e.stats, err
	}

	e.opts.Logger.Debug("stage start", "stage", StagePlacement)
	if err := e.placeQuotient(); err != nil {
		return e.stats, err
	}

	if !e.opts.SkipReorder {
		e.opts.Logger.Debug("stage start", "stage", StageReorder)
		e.reorderIncidentEdges()
	}

	e.opts.Logger.Debug("stage start", "stage", StageReversalPrep)
	e.prepareReversals()

	if !e.opts.SkipRefinement {
		for _, st := range []struct {
			stage Stage
			iters int
		}{
			{StageFlip, e.opts.FlipIterations},
			{StageSwap, e.opts.SwapIterations},
			{StageSettle, e.opts.SettleIterations},
		} {
			e.opts.Logger.Debug("stage start", "stage", st.stage, "budget", st.iters)
			e.refine(st.stage, st.iters)
		}
	}

	e.opts.Logger.Debug("stage start", "stage", StageDone,
		"reversals", e.stats.Reversals, "swaps", e.stats.Swaps)
	return e.stats, nil
}

// prepareReversals computes the order matrix for every circle with at least
// two inter-cluster edges and marks the rest non-reversible. The matrix is
// the O(1) lookup the refinement stage uses to test relative circular
// orientation without recomputing trigonometry.
func (e *Engine) prepareReversals() {
	for _, c := range e.g.Circles() {
		c.MarkReversible()
		if len(c.InterClusterEdges()) >= 2 {
			c.BuildOrderMatrix()
		}
	}
}
