package graphbuild

// AssembleOptions collects the knobs Assemble needs from config without
// importing the config package (avoids a dependency cycle; planner wires
// config.Config's fields in here).
type AssembleOptions struct {
	VertexHashResolution      float64
	NodeConnectionThresholdSq float64
	FaithfulStitchingBug      bool
}

// Assemble implements §4.3: vertex prune, edge prune, vertex
// deduplication/adjacency assembly, and dangling-tip stitching. It
// returns a Graph whose adjacency is symmetric and contains no
// tombstones.
func Assemble(edges []VoronoiEdge, oracle *CollisionOracle, opts AssembleOptions) *Graph {
	pruned := removeObstacleVertices(edges, oracle)
	pruned = removeCollisionEdges(pruned, oracle)

	g := assembleGraph(pruned, opts.VertexHashResolution)
	stitchDanglingTips(g, opts.NodeConnectionThresholdSq, opts.FaithfulStitchingBug)
	return g
}

// removeObstacleVertices drops every edge whose either endpoint lies in a
// cell above the collision threshold (§4.3 step 1).
func removeObstacleVertices(edges []VoronoiEdge, oracle *CollisionOracle) []VoronoiEdge {
	out := make([]VoronoiEdge, 0, len(edges))
	for _, e := range edges {
		if oracle.PointCollides(e.A) || oracle.PointCollides(e.B) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// removeCollisionEdges drops every edge whose segment collides per §4.4
// (§4.3 step 2).
func removeCollisionEdges(edges []VoronoiEdge, oracle *CollisionOracle) []VoronoiEdge {
	out := make([]VoronoiEdge, 0, len(edges))
	for _, e := range edges {
		if oracle.EdgeCollides(e.A, e.B) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// assembleGraph deduplicates vertices by the §3 hash and builds the
// adjacency list, ensuring both directions of every edge are present.
func assembleGraph(edges []VoronoiEdge, hashResolution float64) *Graph {
	g := &Graph{}
	index := make(map[uint32]int)

	nodeFor := func(p PixelPoint) int {
		h := vertexHash(p, hashResolution)
		if idx, ok := index[h]; ok {
			return idx
		}
		idx := len(g.Positions)
		g.Positions = append(g.Positions, p)
		g.Adjacency = append(g.Adjacency, nil)
		index[h] = idx
		return idx
	}

	seenEdge := make(map[[2]int]bool)
	for _, e := range edges {
		i := nodeFor(e.A)
		j := nodeFor(e.B)
		if i == j {
			continue
		}
		key := [2]int{i, j}
		if i > j {
			key = [2]int{j, i}
		}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		g.addEdge(i, j)
	}
	return g
}

// stitchDanglingTips implements §4.3 step 4: every node with exactly one
// neighbor is scanned against all other nodes and connected to any within
// the stitching radius, healing gaps left by a single pruned edge.
//
// When faithfulBug is true it reproduces the §9-documented distance bug
// (the y-term compares node_j to itself instead of to node_i); the
// corrected distance is used otherwise, per the §9 REDESIGN FLAG.
func stitchDanglingTips(g *Graph, thresholdSq float64, faithfulBug bool) {
	n := g.NumNodes()
	// Snapshot degree-1 status before mutating, so newly-added edges in
	// this pass don't change which nodes are considered dangling tips.
	dangling := make([]bool, n)
	for i := 0; i < n; i++ {
		dangling[i] = len(liveNeighbors(g, i)) == 1
	}

	for i := 0; i < n; i++ {
		if !dangling[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j || alreadyConnected(g, i, j) {
				continue
			}
			dist := stitchDistSq(g.Positions[i], g.Positions[j], faithfulBug)
			if dist <= thresholdSq {
				g.addEdge(i, j)
			}
		}
	}
}

// stitchDistSq computes the squared pixel distance used by the stitching
// radius test. The faithful variant reproduces the documented bug where
// the y term is (node_j.y - node_j.y)^2, i.e. always zero.
func stitchDistSq(a, b PixelPoint, faithfulBug bool) float64 {
	dx := b.X - a.X
	if faithfulBug {
		return dx * dx
	}
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

func liveNeighbors(g *Graph, i int) []int {
	var out []int
	for _, j := range g.Adjacency[i] {
		if j != tombstone {
			out = append(out, j)
		}
	}
	return out
}

func alreadyConnected(g *Graph, i, j int) bool {
	for _, n := range g.Adjacency[i] {
		if n == j {
			return true
		}
	}
	return false
}
