package cise

import (
	"slices"

	"github.com/rondel-viz/rondel/pkg/cgraph"
)

// attachment returns the endpoint of the inter-cluster edge that sits on the
// given circle, or nil if neither endpoint does.
func attachment(e *cgraph.Edge, c *cgraph.Circle) *cgraph.Node {
	if e.Source.Owner == c {
		return e.Source
	}
	if e.Target.Owner == c {
		return e.Target
	}
	return nil
}

// reorderIncidentEdges aligns each cluster's incident reduced edges with the
// cluster's internal circular order. For every reduced edge of a cluster,
// the circular indices of the contributing inter-cluster edges' attachment
// nodes are condensed into a single representative perimeter index with a
// wraparound-robust circular mean; the cluster's incident edge list is then
// sorted by that index. The representative indices are kept on the reduced
// edges for the refinement stage's crossing evaluation.
func (e *Engine) reorderIncidentEdges() {
	for _, qn := range e.q.nodes {
		c := qn.orig.Child
		if c == nil || c.Size() == 0 {
			continue
		}
		n := c.Size()

		for _, qe := range qn.incident {
			var indices []int
			for _, m := range qe.members {
				if att := attachment(m, c); att != nil {
					indices = append(indices, att.On.Index)
				}
			}
			if len(indices) == 0 {
				continue
			}
			slices.Sort(indices)
			qe.rep[qn] = circularMean(indices, n)
		}

		slices.SortStableFunc(qn.incident, func(x, y *qedge) int {
			rx, ry := x.rep[qn], y.rep[qn]
			switch {
			case rx < ry:
				return -1
			case rx > ry:
				return 1
			default:
				return 0
			}
		})
	}
}

// circularMean averages sorted circular indices on an n-slot circle,
// respecting wraparound. The largest gap between consecutive indices
// (including the gap from the last index back around to the first) is
// located; every index at or after the gap's far side is shifted down by n
// before averaging, and the mean is lifted back into [0, n) if negative.
//
// A naive arithmetic mean of indices near the wraparound point (0, 1, 5 on a
// 6-slot circle) would land on the far side of the circle; the gap
// correction keeps the mean inside the cluster of indices.
func circularMean(indices []int, n int) float64 {
	m := len(indices)
	if m == 0 {
		return 0
	}
	if m == 1 {
		return float64(indices[0])
	}

	// Find the largest gap and the index that starts its far side.
	gapStart := indices[0]
	largest := indices[0] + n - indices[m-1]
	for k := 0; k < m-1; k++ {
		if gap := indices[k+1] - indices[k]; gap > largest {
			largest = gap
			gapStart = indices[k+1]
		}
	}

	sum := 0.0
	for _, idx := range indices {
		if idx >= gapStart {
			idx -= n
		}
		sum += float64(idx)
	}
	mean := sum / float64(m)
	if mean < 0 {
		mean += float64(n)
	}
	return mean
}
