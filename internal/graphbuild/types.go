// Package graphbuild assembles a pruned AdjacencyGraph from Voronoi edges
// and an occupancy grid (§4.3), and implements the pixel-accurate
// collision oracle (§4.4) that both pruning and bezier smoothing rely on.
package graphbuild

import "math"

// PixelPoint is a continuous point in pixel space; flooring it yields a
// grid index.
type PixelPoint struct {
	X, Y float64
}

// Dist returns the Euclidean pixel distance between two points.
func (p PixelPoint) Dist(q PixelPoint) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistSq returns the squared Euclidean pixel distance, avoiding a sqrt
// where only comparisons are needed.
func (p PixelPoint) DistSq(q PixelPoint) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Floor returns the integer grid cell containing p.
func (p PixelPoint) Floor() (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// VoronoiEdge is an ordered pair of pixel points, already clipped to the
// map rectangle by VoronoiBuilder.
type VoronoiEdge struct {
	A, B PixelPoint
}

// SmoothPath is the dense pixel-space sequence BezierSmoother produces
// (§3): at least 21 samples per smoothed subsection.
type SmoothPath = []PixelPoint

// FullPath builds §3's FullPath from a PathPixels node-index sequence:
// the literal start point prepended and the literal goal point appended
// around the positions of the graph nodes the search actually visited.
func FullPath(start, goal PixelPoint, nodes []int, g *Graph) []PixelPoint {
	out := make([]PixelPoint, 0, len(nodes)+2)
	out = append(out, start)
	for _, n := range nodes {
		out = append(out, g.Positions[n])
	}
	out = append(out, goal)
	return out
}

// tombstone marks a neighbor slot as temporarily deleted during
// KShortestPaths's spur search (§4.8). Outside of a search this value
// never appears in a Graph's adjacency.
const tombstone = -1

// Graph is the AdjacencyGraph of §3: nodes 0..N-1, each with a position
// and an ordered list of neighbor indices. Undirected: every edge appears
// in both endpoints' lists.
type Graph struct {
	Positions []PixelPoint
	Adjacency [][]int
}

// NumNodes returns N.
func (g *Graph) NumNodes() int {
	return len(g.Positions)
}

// Neighbors returns node i's neighbor list, tombstones included.
func (g *Graph) Neighbors(i int) []int {
	return g.Adjacency[i]
}

// IsSymmetric reports whether the adjacency is bidirectional for every
// live (non-tombstoned) edge, the invariant §8 property 3 checks.
func (g *Graph) IsSymmetric() bool {
	for i, neighbors := range g.Adjacency {
		for _, j := range neighbors {
			if j == tombstone {
				continue
			}
			found := false
			for _, back := range g.Adjacency[j] {
				if back == i {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// DisconnectedNodes returns nodes with no live neighbors at all.
func (g *Graph) DisconnectedNodes() []int {
	var out []int
	for i, neighbors := range g.Adjacency {
		live := false
		for _, j := range neighbors {
			if j != tombstone {
				live = true
				break
			}
		}
		if !live {
			out = append(out, i)
		}
	}
	return out
}

// addEdge appends j to i's neighbor list and i to j's, keeping both
// directions present as the invariant in §3 requires.
func (g *Graph) addEdge(i, j int) {
	g.Adjacency[i] = append(g.Adjacency[i], j)
	g.Adjacency[j] = append(g.Adjacency[j], i)
}
