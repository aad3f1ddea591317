package astar

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

// ErrNoReachableNode is returned by NearestNode when every graph node's
// connecting segment to the query point collides (§7 NoReachableGraphNode).
var ErrNoReachableNode = errors.New("astar: no reachable graph node")

// nodeSite is a graph node's position wrapped for r-tree storage, the
// same rtreego.Spatial pattern as the teacher's spatial_index.go
// PolygonEntry.
type nodeSite struct {
	idx int
	p   graphbuild.PixelPoint
}

func (n *nodeSite) Bounds() rtreego.Rect {
	const eps = 1e-6
	rect, err := rtreego.NewRect(rtreego.Point{n.p.X, n.p.Y}, []float64{eps, eps})
	if err != nil {
		rect, _ = rtreego.NewRect(rtreego.Point{n.p.X, n.p.Y}, []float64{1, 1})
	}
	return rect
}

// Index accelerates NearestNode queries over a Graph's node positions
// with an r-tree, growing a query box around the target point the same
// way the teacher's SpatialIndex.QueryRegion scans a bounding box, rather
// than scanning every node unconditionally.
type Index struct {
	tree      *rtreego.Rtree
	g         *graphbuild.Graph
	maxRadius float64
}

// NewIndex builds an r-tree over every node in g.
func NewIndex(g *graphbuild.Graph) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	var minX, minY, maxX, maxY float64
	for i, p := range g.Positions {
		tree.Insert(&nodeSite{idx: i, p: p})
		if i == 0 {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	diag := math.Hypot(maxX-minX, maxY-minY)
	return &Index{tree: tree, g: g, maxRadius: diag + 1}
}

// NearestNode implements §4.6: among graph nodes reachable from query
// without the connecting segment colliding, returns the index of the one
// with smallest squared pixel distance, tie-broken by smallest index.
//
// The r-tree lets this stop growing its search box as soon as the best
// candidate found is provably closer than anything outside the box
// (any point outside a box of half-width r is farther than r away), so
// the observable result is the same as a full linear scan but without
// paying for one on a large graph.
func (idx *Index) NearestNode(oracle *graphbuild.CollisionOracle, query graphbuild.PixelPoint) (int, error) {
	if idx.g.NumNodes() == 0 {
		return 0, ErrNoReachableNode
	}

	radius := 4.0
	if radius > idx.maxRadius {
		radius = idx.maxRadius
	}

	best := -1
	var bestDistSq float64

	for {
		for _, hit := range idx.queryBox(query, radius) {
			if oracle.EdgeCollides(query, hit.p) {
				continue
			}
			d := query.DistSq(hit.p)
			if best == -1 || d < bestDistSq || (d == bestDistSq && hit.idx < best) {
				best = hit.idx
				bestDistSq = d
			}
		}

		if best != -1 && math.Sqrt(bestDistSq) <= radius {
			return best, nil
		}
		if radius >= idx.maxRadius {
			break
		}
		radius *= 2
		if radius > idx.maxRadius {
			radius = idx.maxRadius
		}
	}

	// The box stopped growing at maxRadius without proving best optimal
	// (the query lies far outside the nodes' bounding box), so finish with
	// a full scan in index order.
	best = -1
	for i, p := range idx.g.Positions {
		if oracle.EdgeCollides(query, p) {
			continue
		}
		if d := query.DistSq(p); best == -1 || d < bestDistSq {
			best, bestDistSq = i, d
		}
	}
	if best != -1 {
		return best, nil
	}
	return 0, ErrNoReachableNode
}

func (idx *Index) queryBox(center graphbuild.PixelPoint, radius float64) []*nodeSite {
	rect, err := rtreego.NewRect(
		rtreego.Point{center.X - radius, center.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(rect)
	out := make([]*nodeSite, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*nodeSite))
	}
	return out
}
