package cise

import (
	"math"

	"github.com/rondel-viz/rondel/pkg/cgraph"
	"github.com/rondel-viz/rondel/pkg/geom"
	"github.com/rondel-viz/rondel/pkg/layout/spring"
)

// maxRotationStep caps how far a single iteration may slide an on-circle
// node along its perimeter, in radians.
const maxRotationStep = math.Pi / 18

// phase is the per-iteration bookkeeping of the refinement stages: candidate
// structural changes are decided, then applied, then the embedding relaxes.
type phase int

const (
	phasePrepare phase = iota
	phasePerform
	phaseOther
)

// change is one accepted structural modification: either a whole-circle
// reversal or an adjacent swap at a given order position.
type change struct {
	circle *cgraph.Circle
	swapAt int
	flip   bool
}

// swapKey identifies an unordered adjacent pair for the anti-oscillation
// set.
type swapKey struct {
	a, b *cgraph.Node
}

func keyOf(u, v *cgraph.Node) swapKey {
	if v.ID < u.ID {
		u, v = v, u
	}
	return swapKey{u, v}
}

// refine runs one relaxation stage for at most maxIter iterations or until
// the average displacement per node falls below the convergence epsilon.
// Each iteration walks the PREPARE → PERFORM → OTHER phases: flip or swap
// candidates are decided against the order matrices, accepted changes are
// applied, and the whole node set relaxes under forces.
//
// Anti-oscillation bookkeeping: a circle reversed once during a stage is
// never reversed again in the same stage, and a pair swapped in one
// iteration may not swap back in the immediately following iteration.
func (e *Engine) refine(stage Stage, maxIter int) {
	if maxIter <= 0 {
		return
	}

	moving := len(e.q.nodes) + len(e.g.OnCircleNodes())
	if moving == 0 {
		return
	}

	reversed := make(map[*cgraph.Circle]bool)
	lastSwapped := make(map[swapKey]bool)
	prevTotal := math.Inf(1)
	iters := 0

	for iter := 0; iter < maxIter; iter++ {
		iters++
		var total float64

		for ph := phasePrepare; ph <= phaseOther; ph++ {
			switch ph {
			case phasePrepare:
				// Candidates are gathered in perform below; nothing to
				// stage separately for pure relaxation.
			case phasePerform:
				switch stage {
				case StageFlip:
					e.performFlips(reversed)
				case StageSwap:
					lastSwapped = e.performSwaps(lastSwapped)
				}
			case phaseOther:
				total = e.relaxOnce()
			}
		}

		if e.opts.Progress != nil {
			e.opts.Progress(ProgressEvent{Stage: stage, Iteration: iter, Displacement: total})
		}

		converged := total/float64(moving) < e.opts.ConvergenceEps
		prevTotal = total
		if converged {
			break
		}
	}

	e.stats.FinalDisplacement = prevTotal
	switch stage {
	case StageFlip:
		e.stats.FlipIterations = iters
	case StageSwap:
		e.stats.SwapIterations = iters
	case StageSettle:
		e.stats.SettleIterations = iters
	}
	e.opts.Logger.Debug("stage done", "stage", stage,
		"iterations", iters, "displacement", prevTotal)
}

// performFlips reverses every eligible circle whose reversal reduces the
// estimated inter-cluster crossing count. Circles already reversed during
// this stage are skipped.
func (e *Engine) performFlips(reversedThisPass map[*cgraph.Circle]bool) {
	var accepted []change
	for _, c := range e.g.Circles() {
		if !c.MayBeReversed || reversedThisPass[c] || !c.HasOrderMatrix() {
			continue
		}
		if e.flipGain(c) > 0 {
			accepted = append(accepted, change{circle: c, flip: true})
		}
	}
	for _, ch := range accepted {
		ch.circle.Reverse()
		reversedThisPass[ch.circle] = true
		e.stats.Reversals++
	}
}

// performSwaps evaluates every circularly adjacent pair on every circle and
// applies the swaps that strictly reduce inter-cluster crossings without
// increasing intra-cluster crossings. Pairs swapped in the immediately
// preceding iteration are skipped; the set of pairs swapped now is returned
// for the next iteration.
func (e *Engine) performSwaps(lastSwapped map[swapKey]bool) map[swapKey]bool {
	swappedNow := make(map[swapKey]bool)
	for _, c := range e.g.Circles() {
		n := c.Size()
		if n < 3 || !c.HasOrderMatrix() {
			continue
		}
		for i := 0; i < n; i++ {
			nodes := c.Nodes()
			u, v := nodes[i], nodes[(i+1)%n]
			key := keyOf(u, v)
			if lastSwapped[key] || swappedNow[key] {
				continue
			}
			dInter, dIntra := e.swapDelta(c, i)
			if dInter < 0 && dIntra <= 0 {
				c.SwapAdjacent(i)
				swappedNow[key] = true
				e.stats.Swaps++
			}
		}
	}
	return swappedNow
}

// flipGain estimates how many inter-cluster crossings a reversal of c would
// remove. For every pair of inter-cluster edges attached at distinct nodes,
// the pair is crossing when the attachment nodes' circular orientation (from
// the order matrix) disagrees with the angular order of the external
// endpoints around the circle; reversal flips every attachment orientation,
// so the gain is crossings now minus crossings after.
func (e *Engine) flipGain(c *cgraph.Circle) int {
	edges := c.InterClusterEdges()
	center := c.Center()
	now, pairs := 0, 0
	for i := 0; i < len(edges); i++ {
		u1 := attachment(edges[i], c)
		x1 := edges[i].Other(u1)
		for j := i + 1; j < len(edges); j++ {
			u2 := attachment(edges[j], c)
			x2 := edges[j].Other(u2)
			if u1 == u2 || x1 == x2 {
				continue
			}
			pairs++
			if c.Before(u1, u2) != extCCW(center, x1, x2) {
				now++
			}
		}
	}
	return now - (pairs - now)
}

// swapDelta returns the inter- and intra-cluster crossing deltas of swapping
// the adjacent pair at order position i, without modifying the circle.
func (e *Engine) swapDelta(c *cgraph.Circle, i int) (dInter, dIntra int) {
	n := c.Size()
	nodes := c.Nodes()
	u, v := nodes[i], nodes[(i+1)%n]
	center := c.Center()

	// Swapping u and v flips only their mutual orientation, so only edge
	// pairs with one edge at u and one at v change.
	now, pairs := 0, 0
	for _, eu := range u.On.InterEdges {
		x := eu.Other(u)
		for _, ev := range v.On.InterEdges {
			y := ev.Other(v)
			if x == y {
				continue
			}
			pairs++
			if c.Before(u, v) != extCCW(center, x, y) {
				now++
			}
		}
	}
	dInter = (pairs - now) - now

	before := e.intraCrossingsTouching(c, u, v)
	u.On.Index, v.On.Index = v.On.Index, u.On.Index
	after := e.intraCrossingsTouching(c, u, v)
	u.On.Index, v.On.Index = v.On.Index, u.On.Index
	dIntra = after - before
	return dInter, dIntra
}

// extCCW reports whether external endpoint x precedes y walking
// counter-clockwise around the circle center within half a revolution.
func extCCW(center geom.Point, x, y *cgraph.Node) bool {
	ax := x.Center().Sub(center).Angle()
	ay := y.Center().Sub(center).Angle()
	return geom.AngleDiffCCW(ax, ay) < math.Pi
}

// intraCrossingsTouching counts the intra-cluster chord crossings involving
// at least one edge incident to u or v, using current circular indices.
func (e *Engine) intraCrossingsTouching(c *cgraph.Circle, u, v *cgraph.Node) int {
	touched := make(map[*cgraph.Edge]bool, len(u.On.IntraEdges)+len(v.On.IntraEdges))
	for _, t := range u.On.IntraEdges {
		touched[t] = true
	}
	for _, t := range v.On.IntraEdges {
		touched[t] = true
	}

	n := c.Size()
	all := c.IntraClusterEdges()
	count := 0
	for ti, t := range all {
		if !touched[t] {
			continue
		}
		for ei, other := range all {
			if other == t {
				continue
			}
			if touched[other] && ei < ti {
				continue // touched pairs counted once
			}
			if chordsCross(t.Source.On.Index, t.Target.On.Index,
				other.Source.On.Index, other.Target.On.Index, n) {
				count++
			}
		}
	}
	return count
}

// chordsCross reports whether the chords (a, b) and (c, d), given as
// circular index positions on an n-node circle, cross. Chords sharing an
// endpoint never cross.
func chordsCross(a, b, c, d, n int) bool {
	if a == c || a == d || b == c || b == d {
		return false
	}
	span := (b - a + n) % n
	inArc := func(x int) bool { return (x-a+n)%n < span }
	return inArc(c) != inArc(d)
}

// relaxOnce applies one round of forces to the full node set: spring and
// repulsion forces on the quotient-level nodes, and tangential pulls that
// rotate circles and slide out-nodes along their perimeters. Returns the
// total displacement magnitude.
func (e *Engine) relaxOnce() float64 {
	total := e.relaxQuotient()
	for _, c := range e.g.Circles() {
		if c.Size() == 0 {
			continue
		}
		total += e.rotateCircle(c)
	}
	return total
}

// relaxQuotient applies the placement stage's force model to the reduced
// graph for a single iteration and moves the underlying nodes.
func (e *Engine) relaxQuotient() float64 {
	nodes := e.q.nodes
	if len(nodes) == 0 {
		return 0
	}

	disp := make([]geom.Vector, len(nodes))
	idx := make(map[*qnode]int, len(nodes))
	half := make([]float64, len(nodes))
	pos := make([]geom.Point, len(nodes))
	for i, qn := range nodes {
		idx[qn] = i
		pos[i] = qn.orig.Center()
		half[i] = qn.orig.Rect.MaxDim() / 2
	}

	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := pos[i].Sub(pos[j])
			dist := d.Len()
			if dist == 0 {
				continue
			}
			clearance := dist - half[i] - half[j]
			if clearance < 1 {
				clearance = 1
			}
			f := d.Scale(spring.DefaultRepulsion / (clearance * clearance * dist))
			disp[i] = disp[i].Add(f)
			disp[j] = disp[j].Add(f.Scale(-1))
		}
	}
	for _, qe := range e.q.edges {
		a, b := idx[qe.a], idx[qe.b]
		d := pos[b].Sub(pos[a])
		dist := d.Len()
		if dist == 0 {
			continue
		}
		rest := e.opts.IdealEdgeLength + half[a] + half[b]
		f := d.Scale(e.opts.SpringConstant * (dist - rest) / dist)
		disp[a] = disp[a].Add(f)
		disp[b] = disp[b].Add(f.Scale(-1))
	}

	total := 0.0
	for i, qn := range nodes {
		v := disp[i]
		if l := v.Len(); l > spring.DefaultMaxDisplacement {
			v = v.Scale(spring.DefaultMaxDisplacement / l)
		}
		qn.orig.SetCenter(pos[i].Add(v))
		total += v.Len()
	}
	for _, c := range e.g.Circles() {
		c.UpdatePositions()
	}
	return total
}

// rotateCircle applies the circular force contributions to one circle: the
// mean tangential pull of the out-nodes rotates the whole circle, and each
// out-node additionally slides along the perimeter by its residual pull,
// clamped so it cannot pass its circular neighbors. Returns the arc-length
// displacement.
func (e *Engine) rotateCircle(c *cgraph.Circle) float64 {
	center := c.Center()
	nodes := c.Nodes()
	n := len(nodes)

	deltas := make(map[*cgraph.Node]float64)
	sum := 0.0
	for _, node := range c.OutNodes() {
		targets := make([]geom.Point, 0, len(node.On.InterEdges))
		for _, edge := range node.On.InterEdges {
			targets = append(targets, edge.Other(node).Center())
		}
		force := spring.CircularPull(center, node.Center(), targets, e.opts.CircularForce)
		delta := spring.TangentialDelta(force, node.Center().Sub(center), c.Radius, maxRotationStep)
		deltas[node] = delta
		sum += delta
	}
	if len(deltas) == 0 {
		return 0
	}
	rotation := sum / float64(len(deltas))

	total := 0.0
	for i, node := range nodes {
		move := rotation
		if residual, ok := deltas[node]; ok && n > 1 {
			r := residual - rotation
			prev := nodes[(i-1+n)%n]
			next := nodes[(i+1)%n]
			maxCCW := geom.AngleDiffCCW(node.On.Angle, next.On.Angle) / 2
			maxCW := geom.AngleDiffCCW(prev.On.Angle, node.On.Angle) / 2
			if r > maxCCW {
				r = maxCCW
			}
			if r < -maxCW {
				r = -maxCW
			}
			move += r
		}
		node.On.Angle = geom.NormalizeAngle(node.On.Angle + move)
		total += math.Abs(move) * c.Radius
	}
	c.UpdatePositions()
	return total
}
