// Package astar implements §4.6 NearestNode and §4.7 AStarSearch:
// shortest path between two graph nodes with a Euclidean heuristic, built
// over gonum's graph/simple and graph/path packages the way
// viamrobotics-rdk's kinematics/model.go builds its own kinematic tree
// over gonum/graph/simple.
package astar

import (
	"errors"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

// ErrNoPath is returned when the open list empties before the goal node
// is closed (§7 NoPath).
var ErrNoPath = errors.New("astar: no path to goal")

// Result is a single shortest-path search outcome: the node index
// sequence inclusive of start and goal, and its total pixel cost.
type Result struct {
	Nodes []int
	Cost  float64
}

// Search runs A* between two graph node indices over g's live
// (non-tombstoned) adjacency, using cumulative Euclidean pixel distance
// for g and Euclidean pixel distance to the goal for the heuristic
// (§4.7). The returned cost is the goal node's true cumulative g-cost,
// the corrected behavior of the §9 "A* final cost" REDESIGN FLAG; see
// LegacyGoalCost for the documented bug this replaces.
func Search(g *graphbuild.Graph, start, goal int) (Result, error) {
	if start == goal {
		return Result{Nodes: []int{start}, Cost: 0}, nil
	}

	wg := buildWeightedGraph(g)
	goalPos := g.Positions[goal]
	heuristic := func(x, y gonumgraph.Node) float64 {
		return g.Positions[x.ID()].Dist(goalPos)
	}

	shortest, _ := path.AStar(simple.Node(start), simple.Node(goal), wg, heuristic)
	nodes, cost := shortest.To(int64(goal))
	if len(nodes) == 0 {
		return Result{}, ErrNoPath
	}

	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	return Result{Nodes: out, Cost: cost}, nil
}

// LegacyGoalCost reproduces the §9-documented bug where the source reads
// `cost = curr.total_cost` before expanding the first node popped off the
// open list, so the "final" cost it returns is just the start node's
// heuristic to the goal rather than the true path cost. Kept for parity
// tests against the original behavior; Search above returns the
// corrected cost by default.
func LegacyGoalCost(start, goal graphbuild.PixelPoint) float64 {
	return start.Dist(goal)
}

// buildWeightedGraph converts g's live adjacency into a gonum weighted
// undirected graph, edge weight the Euclidean pixel distance between
// endpoints. Tombstoned neighbor slots (negative indices, §3) are
// skipped, matching the skip-tombstones behavior AStarSearch needs
// during KShortestPaths's spur searches.
func buildWeightedGraph(g *graphbuild.Graph) *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < g.NumNodes(); i++ {
		wg.AddNode(simple.Node(i))
	}
	for i := 0; i < g.NumNodes(); i++ {
		for _, j := range g.Neighbors(i) {
			if j < 0 || j <= i {
				continue // tombstoned, or the reverse half of an edge already added
			}
			w := g.Positions[i].Dist(g.Positions[j])
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(i), simple.Node(j), w))
		}
	}
	return wg
}
