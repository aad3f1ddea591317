// Package voronoi builds the clipped Voronoi diagram of the occupied
// cells of an occupancy grid (§4.2). The algorithm choice is explicitly
// not observable per spec — only the resulting diagram is — so this
// package implements the textbook half-plane-clipping construction: each
// site's cell starts as the map rectangle and is cut down by the
// perpendicular-bisector half-plane of every other site, the same
// technique "any half-plane clipped Voronoi library" refers to.
package voronoi

import (
	"runtime"
	"sync"

	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
)

// Options mirrors the VoronoiBuilder inputs of §4.2.
type Options struct {
	OccupancyThreshold int16
	Stride             int // sample occupied cells on every Stride-th row and column; >= 1
	ExtraSeeds         []graphbuild.PixelPoint
}

// taggedVertex is a polygon vertex annotated with the tag of the edge
// leaving it, used while clipping a single cell against every other site.
type taggedVertex struct {
	p   graphbuild.PixelPoint
	tag int // index of the neighboring site this outgoing edge borders, or -1
}

// Build computes the Voronoi diagram of the sampled occupied cells (plus
// any extra seed points), clipped to the grid rectangle, and returns its
// edges. Order is not observable downstream — edges feed GraphAssembler,
// which deduplicates vertices by hash.
func Build(view *gridview.View, opts Options) []graphbuild.VoronoiEdge {
	sites := collectSites(view, opts)
	if len(sites) < 2 {
		return nil
	}
	width, height := view.Size()
	rect := []graphbuild.PixelPoint{
		{X: 0, Y: 0},
		{X: float64(width - 1), Y: 0},
		{X: float64(width - 1), Y: float64(height - 1)},
		{X: 0, Y: float64(height - 1)},
	}

	type result struct {
		edges []graphbuild.VoronoiEdge
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(sites) {
		workers = len(sites)
	}
	if workers < 1 {
		workers = 1
	}

	chunks := make([][]graphbuild.VoronoiEdge, workers)
	var wg sync.WaitGroup
	perWorker := (len(sites) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if start >= len(sites) {
			continue
		}
		if end > len(sites) {
			end = len(sites)
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var local []graphbuild.VoronoiEdge
			for i := start; i < end; i++ {
				local = append(local, cellEdges(i, sites, rect)...)
			}
			chunks[w] = local
		}(w, start, end)
	}
	wg.Wait()

	var out []graphbuild.VoronoiEdge
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out
}

// collectSites samples occupied cells at the configured stride and
// appends any extra seed points, per §4.2. The row-major scan is
// partitioned across GOMAXPROCS workers per §5.2's occupancy-scan
// parallelism rule: each worker returns its own occupied-cell subvector
// and the coordinator concatenates them, order not observable.
func collectSites(view *gridview.View, opts Options) []graphbuild.PixelPoint {
	width, height := view.Size()
	stride := opts.Stride
	if stride < 1 {
		stride = 1
	}

	rows := make([]int, 0, (height+stride-1)/stride)
	for row := 0; row < height; row += stride {
		rows = append(rows, row)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}

	chunks := make([][]graphbuild.PixelPoint, workers)
	perWorker := (len(rows) + workers - 1) / workers
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if start >= len(rows) {
			continue
		}
		if end > len(rows) {
			end = len(rows)
		}
		wg.Add(1)
		go func(w int, rowIndices []int) {
			defer wg.Done()
			var local []graphbuild.PixelPoint
			for _, row := range rowIndices {
				for col := 0; col < width; col += stride {
					occ, err := view.Occ(col, row)
					if err != nil {
						continue
					}
					if occ >= opts.OccupancyThreshold {
						local = append(local, graphbuild.PixelPoint{X: float64(col), Y: float64(row)})
					}
				}
			}
			chunks[w] = local
		}(w, rows[start:end])
	}
	wg.Wait()

	var sites []graphbuild.PixelPoint
	for _, chunk := range chunks {
		sites = append(sites, chunk...)
	}
	sites = append(sites, opts.ExtraSeeds...)
	return sites
}

// cellEdges computes the Voronoi-edge contribution of site i: its cell,
// found by clipping the rectangle against every other site's bisector
// half-plane, emitted only where the bordering neighbor index exceeds i
// (so each edge between two cells is emitted exactly once).
func cellEdges(i int, sites []graphbuild.PixelPoint, rect []graphbuild.PixelPoint) []graphbuild.VoronoiEdge {
	verts := make([]taggedVertex, len(rect))
	for k, p := range rect {
		verts[k] = taggedVertex{p: p, tag: -1}
	}

	site := sites[i]
	for j, other := range sites {
		if j == i {
			continue
		}
		verts = clipHalfPlane(verts, site, other, j)
		if len(verts) == 0 {
			break
		}
	}

	var edges []graphbuild.VoronoiEdge
	n := len(verts)
	for k := 0; k < n; k++ {
		tag := verts[k].tag
		if tag <= i {
			continue // emit each inter-site edge once, from the lower-indexed site
		}
		a := verts[k].p
		b := verts[(k+1)%n].p
		edges = append(edges, graphbuild.VoronoiEdge{A: a, B: b})
	}
	return edges
}

// clipHalfPlane clips the polygon to the half-plane of points at least as
// close to `site` as to `other` (standard Sutherland-Hodgman, adapted to
// carry the outgoing-edge tag of each vertex).
func clipHalfPlane(poly []taggedVertex, site, other graphbuild.PixelPoint, otherIdx int) []taggedVertex {
	n := len(poly)
	inside := func(p graphbuild.PixelPoint) bool {
		return p.DistSq(site) <= p.DistSq(other)
	}

	var out []taggedVertex
	for k := 0; k < n; k++ {
		curr := poly[k]
		next := poly[(k+1)%n]
		currIn := inside(curr.p)
		nextIn := inside(next.p)

		switch {
		case currIn && nextIn:
			out = append(out, taggedVertex{p: curr.p, tag: curr.tag})
		case currIn && !nextIn:
			out = append(out, taggedVertex{p: curr.p, tag: curr.tag})
			ip := intersectBisector(curr.p, next.p, site, other)
			out = append(out, taggedVertex{p: ip, tag: otherIdx})
		case !currIn && nextIn:
			ip := intersectBisector(curr.p, next.p, site, other)
			out = append(out, taggedVertex{p: ip, tag: curr.tag})
		default:
			// both outside: edge fully clipped away
		}
	}
	return out
}

// intersectBisector finds where segment a-b crosses the perpendicular
// bisector of site/other. Both |p-site|^2 <= |p-other|^2 is linear in p
// since the quadratic terms cancel, so this is an exact line-segment
// intersection, not an iterative root find.
func intersectBisector(a, b, site, other graphbuild.PixelPoint) graphbuild.PixelPoint {
	f := func(p graphbuild.PixelPoint) float64 {
		return p.DistSq(site) - p.DistSq(other)
	}
	fa, fb := f(a), f(b)
	if fa == fb {
		return a
	}
	t := fa / (fa - fb)
	return graphbuild.PixelPoint{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}
