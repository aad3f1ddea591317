// Package bezier implements §4.9 BezierSmoother: converts a node
// sequence into a dense, collision-free smooth curve by greedily
// batching runs of control points into Bernstein-basis Bézier
// subsections, the same incremental-batching shape as the teacher's
// simplify.go walks a point sequence.
package bezier

import (
	"math"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

// samplesPerSubsection is the §4.9 step 3 sample count: t = 0, 0.05, ...,
// 1.0 inclusive.
const samplesPerSubsection = 21

// Options collects the §4.9/§6 knobs Smooth needs.
type Options struct {
	MaxControlPoints int     // bezier_max_n, default 10
	MinNodeSepSq     float64 // min_node_sep_sq (m^2)
	ExtraPointDist   float64 // extra_point_distance (m)
	Resolution       float64 // grid.resolution (m/px), used to scale the two above into pixels
}

// Smooth implements §4.9 end to end over a FullPath (literal start
// prepended, goal appended to the node sequence, per §3). ok is false
// when an adjacent pair in the input collides, the §7 DegradedMap case:
// the caller omits this path and may still return others.
func Smooth(full []graphbuild.PixelPoint, oracle *graphbuild.CollisionOracle, opts Options) (out []graphbuild.PixelPoint, ok bool) {
	if len(full) < 2 {
		return nil, false
	}
	for i := 0; i < len(full)-1; i++ {
		if oracle.EdgeCollides(full[i], full[i+1]) {
			return nil, false
		}
	}

	maxN := opts.MaxControlPoints
	if maxN < 2 {
		maxN = 10
	}

	var result []graphbuild.PixelPoint
	i := 0
	for i < len(full) {
		subsection := []graphbuild.PixelPoint{full[i]}
		j := i + 1
		for j < len(full) && len(subsection) < maxN {
			if oracle.EdgeCollides(subsection[0], full[j]) {
				break
			}
			subsection = append(subsection, full[j])
			j++
		}

		// §4.9 step 4 states the dedup threshold as min_node_sep_sq *
		// grid.resolution verbatim (not squared) — reproduced literally,
		// the same way §9's other source-quirks are kept as written.
		result = append(result, bezierSubsection(subsection, opts.MinNodeSepSq*opts.Resolution)...)

		if j >= len(full) {
			break
		}

		// The next subsection restarts from the last accepted point L
		// rather than the raw node after it, so its t=0 sample exactly
		// overlaps this subsection's t=1 sample (§4.9 step 2, "starting
		// from the last accepted point"). An extra continuity-anchor
		// point, collinear with the last two accepted nodes, is inserted
		// right after L when it doesn't collide (§4.9 step 3).
		last := subsection[len(subsection)-1]
		next := full[j]
		i = j
		full = insertBefore(full, i, last)
		if extra, added := extraPoint(subsection, next, opts.ExtraPointDist*opts.Resolution, oracle); added {
			full = insertBefore(full, i+1, extra)
		}
	}
	return result, true
}

// extraPoint computes the §4.9 step 3 continuity anchor: a point
// collinear with the last two accepted control points, offset beyond the
// last one by extraPointDist along their direction, dropped if the
// segment from the last point to it or from it to next collides.
func extraPoint(subsection []graphbuild.PixelPoint, next graphbuild.PixelPoint, extraPointDist float64, oracle *graphbuild.CollisionOracle) (graphbuild.PixelPoint, bool) {
	if len(subsection) < 2 || extraPointDist <= 0 {
		return graphbuild.PixelPoint{}, false
	}
	last := subsection[len(subsection)-1]
	prev := subsection[len(subsection)-2]

	dx, dy := last.X-prev.X, last.Y-prev.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return graphbuild.PixelPoint{}, false
	}
	anchor := graphbuild.PixelPoint{
		X: last.X + dx/dist*extraPointDist,
		Y: last.Y + dy/dist*extraPointDist,
	}
	if oracle.EdgeCollides(last, anchor) || oracle.EdgeCollides(anchor, next) {
		return graphbuild.PixelPoint{}, false
	}
	return anchor, true
}

// insertBefore inserts p immediately before index i in pts, leaving the
// rest of the path to resume from the inserted point.
func insertBefore(pts []graphbuild.PixelPoint, i int, p graphbuild.PixelPoint) []graphbuild.PixelPoint {
	out := make([]graphbuild.PixelPoint, 0, len(pts)+1)
	out = append(out, pts[:i]...)
	out = append(out, p)
	out = append(out, pts[i:]...)
	return out
}

// bezierSubsection implements §4.9 step 4: drop control points within
// minNodeSepSqPx of their predecessor (never dropping the last point),
// then evaluate a Bernstein-basis Bézier curve of degree len(controls)-1
// at samplesPerSubsection evenly-spaced parameter values.
func bezierSubsection(controls []graphbuild.PixelPoint, minNodeSepSqPx float64) []graphbuild.PixelPoint {
	thinned := thinControls(controls, minNodeSepSqPx)
	if len(thinned) == 1 {
		return thinned
	}

	n := len(thinned) - 1
	out := make([]graphbuild.PixelPoint, 0, samplesPerSubsection)
	for s := 0; s < samplesPerSubsection; s++ {
		t := float64(s) * 0.05
		out = append(out, evalBernstein(thinned, n, t))
	}
	return out
}

func thinControls(controls []graphbuild.PixelPoint, minSepSq float64) []graphbuild.PixelPoint {
	if len(controls) == 0 {
		return controls
	}
	out := []graphbuild.PixelPoint{controls[0]}
	for i := 1; i < len(controls); i++ {
		isLast := i == len(controls)-1
		if !isLast && controls[i].DistSq(out[len(out)-1]) < minSepSq {
			continue
		}
		out = append(out, controls[i])
	}
	return out
}

// evalBernstein evaluates the degree-n Bernstein-basis Bézier curve
// through controls at parameter t.
func evalBernstein(controls []graphbuild.PixelPoint, n int, t float64) graphbuild.PixelPoint {
	var x, y float64
	for k, p := range controls {
		b := bernstein(n, k, t)
		x += b * p.X
		y += b * p.Y
	}
	return graphbuild.PixelPoint{X: x, Y: y}
}

func bernstein(n, k int, t float64) float64 {
	return binomial(n, k) * math.Pow(t, float64(k)) * math.Pow(1-t, float64(n-k))
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}
