package centroid

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

type cell struct{ r, c int }

// connectedComponents labels 8-connected foreground regions of a binary
// *mat.Dense, returning each region's member cells. This stands in for
// the "external contours" of §4.5: one component per obstacle blob.
func connectedComponents(bin *mat.Dense) [][]cell {
	rows, cols := bin.Dims()
	visited := make([][]bool, rows)
	for r := range visited {
		visited[r] = make([]bool, cols)
	}

	var components [][]cell
	offsets := []cell{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if visited[r][c] || bin.At(r, c) == 0 {
				continue
			}
			var comp []cell
			queue := []cell{{r, c}}
			visited[r][c] = true
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				comp = append(comp, cur)
				for _, o := range offsets {
					nr, nc := cur.r+o.r, cur.c+o.c
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					if visited[nr][nc] || bin.At(nr, nc) == 0 {
						continue
					}
					visited[nr][nc] = true
					queue = append(queue, cell{nr, nc})
				}
			}
			components = append(components, comp)
		}
	}
	return components
}

// boundaryOf restricts a component's cells to those also marked in the
// edge mask, falling back to the full component when the edge pass
// leaves nothing (e.g. a single-pixel blob, where the Sobel gradient is
// zero on the blob's only pixel).
func boundaryOf(comp []cell, edges *mat.Dense) []cell {
	var out []cell
	for _, cl := range comp {
		if edges.At(cl.r, cl.c) != 0 {
			out = append(out, cl)
		}
	}
	if len(out) == 0 {
		return comp
	}
	return out
}

// convexHull computes the convex hull of a pixel set via Andrew's
// monotone chain, returning vertices in counter-clockwise order. Used as
// the external-contour polygon handed to moment computation: any
// simple closed polygon enclosing the component works for the first-order
// moments, and the hull is simple to construct correctly and stable
// under Douglas-Peucker simplification.
func convexHull(cells []cell) []graphbuild.PixelPoint {
	if len(cells) == 0 {
		return nil
	}
	pts := make([]graphbuild.PixelPoint, len(cells))
	for i, cl := range cells {
		pts[i] = graphbuild.PixelPoint{X: float64(cl.c), Y: float64(cl.r)}
	}
	return monotoneChainHull(pts)
}

func monotoneChainHull(pts []graphbuild.PixelPoint) []graphbuild.PixelPoint {
	sortPoints(pts)
	dedupAdjacent(&pts)
	if len(pts) <= 2 {
		return pts
	}

	cross := func(o, a, b graphbuild.PixelPoint) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	n := len(pts)
	hull := make([]graphbuild.PixelPoint, 0, 2*n)

	// lower hull
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// upper hull
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func sortPoints(pts []graphbuild.PixelPoint) {
	// simple insertion sort by (X, Y): component counts are small enough
	// (obstacle-sized blobs) that O(n^2) is not a concern here.
	for i := 1; i < len(pts); i++ {
		j := i
		for j > 0 && less(pts[j], pts[j-1]) {
			pts[j], pts[j-1] = pts[j-1], pts[j]
			j--
		}
	}
}

func less(a, b graphbuild.PixelPoint) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func dedupAdjacent(pts *[]graphbuild.PixelPoint) {
	if len(*pts) == 0 {
		return
	}
	out := (*pts)[:1]
	for _, p := range (*pts)[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	*pts = out
}

// simplifyContour runs a closed point sequence through Douglas-Peucker
// line simplification, the same algorithm and shape as the teacher's
// simplify.go douglasPeucker, adapted for a closed ring.
func simplifyContour(points []graphbuild.PixelPoint, epsilon float64) []graphbuild.PixelPoint {
	if len(points) <= 3 {
		return points
	}
	closed := append(append([]graphbuild.PixelPoint{}, points...), points[0])
	simplified := douglasPeucker(closed, epsilon)
	if len(simplified) > 1 {
		simplified = simplified[:len(simplified)-1]
	}
	if len(simplified) < 3 {
		return points
	}
	return simplified
}

func douglasPeucker(points []graphbuild.PixelPoint, epsilon float64) []graphbuild.PixelPoint {
	if len(points) <= 2 {
		return points
	}

	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(points[:index+1], epsilon)
		right := douglasPeucker(points[index:], epsilon)
		result := make([]graphbuild.PixelPoint, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}
	return []graphbuild.PixelPoint{points[0], points[end]}
}

func perpendicularDistance(p, a, b graphbuild.PixelPoint) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return p.Dist(a)
	}
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}
