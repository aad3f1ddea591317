// Package kshortest implements §4.8 KShortestPaths: a Yen-style
// enumeration of alternate start-to-goal paths over a graphbuild.Graph,
// filtered so only H-signature-distinct topologies survive. Each spur
// search reuses internal/astar.Search the way Yen's algorithm classically
// reuses a plain shortest-path routine as its inner subroutine; gonum's
// own path.YenKShortestPaths doesn't expose per-spur tombstoning hooks,
// so the enumeration loop itself is hand-rolled against §4.8's exact
// tombstone/backup/restore contract.
package kshortest

import (
	"fmt"
	"sort"

	"github.com/benedrone/topoplan/internal/astar"
	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/homotopy"
)

// ErrNoPath is astar.ErrNoPath, re-exported so callers of Find don't also
// need to import internal/astar for its sentinel.
var ErrNoPath = astar.ErrNoPath

// Path is one accepted candidate: its node index sequence, total pixel
// cost, and H-signature.
type Path struct {
	Nodes     []int
	Cost      float64
	Signature complex128
}

// Options collects the §4.8/§6 knobs Find needs.
type Options struct {
	K      int // num_paths
	Theta  float64
	Scorer *homotopy.Scorer
}

// candidate is a generated-but-not-yet-accepted alternate, Yen's
// classical "B list" entry.
type candidate struct {
	nodes []int
	cost  float64
}

// Find seeds with the A* shortest path (P1) and returns up to Options.K
// H-signature-distinct paths, P1 included, per §4.8 steps 1-6. Returns
// ErrNoPath if even the seed search fails.
func Find(g *graphbuild.Graph, start, goal int, opts Options) ([]Path, error) {
	seed, err := astar.Search(g, start, goal)
	if err != nil {
		return nil, err
	}

	accepted := []Path{{Nodes: seed.Nodes, Cost: seed.Cost, Signature: seedSignature(opts.Scorer, g, seed.Nodes)}}
	if opts.K <= 1 {
		return accepted, nil
	}

	acceptedKeys := map[string]bool{pathKey(seed.Nodes): true}
	rejectedKeys := map[string]bool{}
	inPool := map[string]bool{}
	var pool []candidate

	for len(accepted) < opts.K {
		prev := accepted[len(accepted)-1].Nodes
		generated := spurCandidates(g, prev, accepted)

		addedAny := false
		for _, c := range generated {
			key := pathKey(c.nodes)
			if acceptedKeys[key] || rejectedKeys[key] || inPool[key] {
				continue
			}
			inPool[key] = true
			pool = append(pool, c)
			addedAny = true
		}
		if len(pool) == 0 {
			break // step 6: no candidates remain
		}

		sort.SliceStable(pool, func(i, j int) bool { return pool[i].cost < pool[j].cost })

		signatures := make([]complex128, len(accepted))
		for i, p := range accepted {
			signatures[i] = p.Signature
		}

		acceptedIdx := -1
		for i, c := range pool {
			key := pathKey(c.nodes)
			sig, ok := opts.Scorer.Score(toPixels(g, c.nodes))
			distinct := ok && allDistinct(sig, signatures, opts.Theta)
			if distinct {
				accepted = append(accepted, Path{Nodes: c.nodes, Cost: c.cost, Signature: sig})
				delete(inPool, key)
				acceptedKeys[key] = true
				acceptedIdx = i
				break
			}
			rejectedKeys[key] = true
			delete(inPool, key)
		}

		if acceptedIdx == -1 {
			pool = nil
			if !addedAny {
				break // nothing new this round either: truly exhausted
			}
			continue
		}
		pool = append([]candidate{}, pool[acceptedIdx+1:]...)
	}

	return accepted, nil
}

// seedSignature scores P1. A degenerate (near-centroid) score still
// seeds the registry with 0 rather than failing the whole plan — only
// *candidates* are rejected by the §7 guard, per §4.8's framing of P1 as
// given.
func seedSignature(scorer *homotopy.Scorer, g *graphbuild.Graph, nodes []int) complex128 {
	sig, ok := scorer.Score(toPixels(g, nodes))
	if !ok {
		return 0
	}
	return sig
}

// allDistinct reports whether cand differs from every signature in h by
// more than theta (§4.8 step 5).
func allDistinct(cand complex128, h []complex128, theta float64) bool {
	for _, prev := range h {
		if !homotopy.Distinct(cand, prev, theta) {
			return false
		}
	}
	return true
}

func toPixels(g *graphbuild.Graph, nodes []int) []graphbuild.PixelPoint {
	out := make([]graphbuild.PixelPoint, len(nodes))
	for i, n := range nodes {
		out[i] = g.Positions[n]
	}
	return out
}

func pathKey(nodes []int) string {
	return fmt.Sprint(nodes)
}
