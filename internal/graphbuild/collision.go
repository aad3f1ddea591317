package graphbuild

import (
	"math"

	"github.com/benedrone/topoplan/internal/gridview"
)

// CollisionOracle implements §4.4: walks a line segment in pixel space at
// a fixed step resolution and reports whether any sampled cell exceeds
// the collision threshold.
type CollisionOracle struct {
	view                *gridview.View
	collisionThreshold  int16
	lineCheckResolution float64 // pixels
}

// NewCollisionOracle builds an oracle over view, flagging any cell whose
// occupancy exceeds collisionThreshold, walked at lineCheckResolution
// pixels per step (independent of the grid's world resolution, per §4.4).
func NewCollisionOracle(view *gridview.View, collisionThreshold int16, lineCheckResolution float64) *CollisionOracle {
	if lineCheckResolution <= 0 {
		lineCheckResolution = 0.1
	}
	return &CollisionOracle{view: view, collisionThreshold: collisionThreshold, lineCheckResolution: lineCheckResolution}
}

// EdgeCollides walks ceil(d/r) steps (ceil(d/r)+1 samples, at least 2)
// from p to q inclusive of both endpoints, floors each sample to a grid
// index, and returns true on the first
// cell whose occupancy exceeds the collision threshold. A sample outside
// the grid is treated as colliding, since the caller cannot trust it.
func (c *CollisionOracle) EdgeCollides(p, q PixelPoint) bool {
	d := p.Dist(q)
	steps := int(math.Ceil(d / c.lineCheckResolution))
	if steps < 1 {
		steps = 1
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := p.X + (q.X-p.X)*t
		y := p.Y + (q.Y-p.Y)*t
		col, row := int(math.Floor(x)), int(math.Floor(y))

		if !c.view.InBounds(col, row) {
			return true
		}
		occ, err := c.view.Occ(col, row)
		if err != nil {
			return true
		}
		if occ > c.collisionThreshold {
			return true
		}
	}
	return false
}

// PointCollides reports whether the single cell under p exceeds the
// collision threshold; used for vertex pruning (§4.3 step 1).
func (c *CollisionOracle) PointCollides(p PixelPoint) bool {
	col, row := p.Floor()
	if !c.view.InBounds(col, row) {
		return true
	}
	occ, err := c.view.Occ(col, row)
	if err != nil {
		return true
	}
	return occ > c.collisionThreshold
}
