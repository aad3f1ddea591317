package kshortest

import (
	"github.com/benedrone/topoplan/internal/astar"
	"github.com/benedrone/topoplan/internal/graphbuild"
)

// spurCandidates implements §4.8 step 2: for every spur node v along
// prev (index 0 to second-to-last), tombstones the edges that would
// reproduce an already-found path sharing the same root prefix, runs A*
// from v to the goal, and restores the adjacency before moving to the
// next spur node.
func spurCandidates(g *graphbuild.Graph, prev []int, accepted []Path) []candidate {
	if len(prev) < 2 {
		return nil
	}
	prefixCost := prefixCosts(g, prev)
	goal := prev[len(prev)-1]

	var out []candidate
	for v := 0; v < len(prev)-1; v++ {
		root := prev[:v+1]
		spurNode := root[len(root)-1]

		backup := backupAdjacency(g)
		tombstoneKnownSuccessors(g, root, accepted)
		tombstoneInteriorNodes(g, root)

		result, err := astar.Search(g, spurNode, goal)
		restoreAdjacency(g, backup)

		if err != nil {
			continue
		}
		nodes := append(append([]int{}, root[:len(root)-1]...), result.Nodes...)
		out = append(out, candidate{nodes: nodes, cost: prefixCost[v] + result.Cost})
	}
	return out
}

// prefixCosts returns, for each index v, the cumulative Euclidean pixel
// cost of path[0..v].
func prefixCosts(g *graphbuild.Graph, path []int) []float64 {
	costs := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		costs[i] = costs[i-1] + g.Positions[path[i-1]].Dist(g.Positions[path[i]])
	}
	return costs
}

// tombstoneKnownSuccessors tombstones every edge (v, next) where v is
// root's last node and next is v's successor in any already-found path
// that shares the same root prefix (§4.8 step 2, first bullet).
func tombstoneKnownSuccessors(g *graphbuild.Graph, root []int, accepted []Path) {
	v := len(root) - 1
	spurNode := root[v]
	for _, p := range accepted {
		if len(p.Nodes) <= v {
			continue
		}
		samePrefix := true
		for i := 0; i <= v; i++ {
			if p.Nodes[i] != root[i] {
				samePrefix = false
				break
			}
		}
		if !samePrefix || len(p.Nodes) <= v+1 {
			continue
		}
		next := p.Nodes[v+1]
		tombstoneEdge(g, spurNode, next)
	}
}

// tombstoneInteriorNodes tombstones every incident edge of every node
// strictly inside root, i.e. every node before the spur node (§4.8 step
// 2, second bullet).
func tombstoneInteriorNodes(g *graphbuild.Graph, root []int) {
	for _, n := range root[:len(root)-1] {
		for _, nb := range g.Adjacency[n] {
			if nb >= 0 {
				tombstoneEdge(g, n, nb)
			}
		}
	}
}

// tombstoneEdge marks both directions of edge (a, b) as deleted (§3
// tombstone convention), leaving every other slot untouched.
func tombstoneEdge(g *graphbuild.Graph, a, b int) {
	for i, nb := range g.Adjacency[a] {
		if nb == b {
			g.Adjacency[a][i] = -1
		}
	}
	for i, nb := range g.Adjacency[b] {
		if nb == a {
			g.Adjacency[b][i] = -1
		}
	}
}

// backupAdjacency deep-copies g's adjacency so it can be restored after a
// spur search's tombstoning (§4.8's "adj_list backup").
func backupAdjacency(g *graphbuild.Graph) [][]int {
	backup := make([][]int, len(g.Adjacency))
	for i, neighbors := range g.Adjacency {
		backup[i] = append([]int{}, neighbors...)
	}
	return backup
}

// restoreAdjacency restores g's adjacency from a backupAdjacency snapshot.
func restoreAdjacency(g *graphbuild.Graph, backup [][]int) {
	for i, neighbors := range backup {
		g.Adjacency[i] = neighbors
	}
}
