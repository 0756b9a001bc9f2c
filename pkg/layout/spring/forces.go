package spring

import "github.com/rondel-viz/rondel/pkg/geom"

// CircularPull returns the force an on-circle node receives from its
// inter-cluster edges during the refinement stages. Each external endpoint
// pulls the node toward itself; only the component tangential to the circle
// can move the node (on-circle nodes slide along the perimeter), so the
// returned vector is the tangential projection of the accumulated pull,
// scaled by factor.
//
// center is the node's circle center, node is the node's current center
// position, and targets are the external endpoints of the node's
// inter-cluster edges.
func CircularPull(center, node geom.Point, targets []geom.Point, factor float64) geom.Vector {
	if len(targets) == 0 {
		return geom.Vector{}
	}

	var pull geom.Vector
	for _, t := range targets {
		d := t.Sub(node)
		dist := d.Len()
		if dist == 0 {
			continue
		}
		pull = pull.Add(d.Scale(1 / dist))
	}

	radial := node.Sub(center)
	r := radial.Len()
	if r == 0 {
		return geom.Vector{}
	}
	// Unit tangent, counter-clockwise.
	tangent := geom.Vector{X: -radial.Y / r, Y: radial.X / r}
	return tangent.Scale(pull.Dot(tangent) * factor)
}

// TangentialDelta converts a tangential force on an on-circle node into an
// angular displacement on a circle of the given radius. The result is capped
// at maxDelta radians in either direction to keep single-iteration rotations
// stable.
func TangentialDelta(force geom.Vector, radial geom.Vector, radius, maxDelta float64) float64 {
	r := radial.Len()
	if r == 0 || radius == 0 {
		return 0
	}
	tangent := geom.Vector{X: -radial.Y / r, Y: radial.X / r}
	delta := force.Dot(tangent) / radius
	if delta > maxDelta {
		delta = maxDelta
	}
	if delta < -maxDelta {
		delta = -maxDelta
	}
	return delta
}
