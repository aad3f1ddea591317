package centroid

import "github.com/benedrone/topoplan/internal/graphbuild"

// polygonMoments computes the zeroth and first raw moments of a simple
// closed polygon via the standard Green's-theorem (shoelace) formulas.
// ok is false when the polygon degenerates (m00 ~ 0, e.g. collinear
// points), mirroring the NaN-centroid case spec.md §4.5/§7 discards as
// ContourDegenerate.
func polygonMoments(poly []graphbuild.PixelPoint) (m00, m10, m01 float64, ok bool) {
	if len(poly) < 3 {
		return 0, 0, 0, false
	}
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		cross := a.X*b.Y - b.X*a.Y
		m00 += cross
		m10 += (a.X + b.X) * cross
		m01 += (a.Y + b.Y) * cross
	}
	m00 /= 2
	m10 /= 6
	m01 /= 6

	const epsilon = 1e-9
	if m00 > -epsilon && m00 < epsilon {
		return 0, 0, 0, false
	}
	return m00, m10, m01, true
}

// centroidOf returns the polygon's centroid, or ok=false for a degenerate
// (near-zero-area) polygon.
func centroidOf(poly []graphbuild.PixelPoint) (graphbuild.PixelPoint, bool) {
	m00, m10, m01, ok := polygonMoments(poly)
	if !ok {
		return graphbuild.PixelPoint{}, false
	}
	return graphbuild.PixelPoint{X: m10 / m00, Y: m01 / m00}, true
}
