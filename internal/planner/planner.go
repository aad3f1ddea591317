// Package planner implements §4.10 PlannerCoordinator and the §5
// concurrency contract. It takes the REDESIGN FLAG's preferred option
// (b): map_to_graph builds an immutable snapshot and atomically swaps it
// in with atomic.Pointer, rather than guarding shared mutable state with
// fine-grained locks; the two legacy booleans (updating_voronoi,
// is_planning) are kept as an atomic.Bool pair purely as the observable
// contention signal §5 describes.
package planner

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/benedrone/topoplan/internal/astar"
	"github.com/benedrone/topoplan/internal/bezier"
	"github.com/benedrone/topoplan/internal/centroid"
	"github.com/benedrone/topoplan/internal/config"
	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
	"github.com/benedrone/topoplan/internal/homotopy"
	"github.com/benedrone/topoplan/internal/kshortest"
	"github.com/benedrone/topoplan/internal/telemetry"
	"github.com/benedrone/topoplan/internal/voronoi"
)

// ErrNoGraph marks the case where Plan is called before any MapToGraph
// call has succeeded. Plan never returns an error across its own
// boundary (§7), but this sentinel gives the internal log line something
// to wrap and lets tests assert on the reason a plan came back empty.
var ErrNoGraph = errors.New("planner: no graph built yet")

// graphSnapshot is the immutable result of a single map_to_graph call:
// everything §4.6-4.9 need to plan against one consistent map state.
type graphSnapshot struct {
	view      *gridview.View
	graph     *graphbuild.Graph
	oracle    *graphbuild.CollisionOracle
	scorer    *homotopy.Scorer
	centroids []complex128
}

// Coordinator orchestrates §4.2-4.9 and enforces the §5 mutual-exclusion
// contract between a builder role (MapToGraph) and a planner role (Plan).
type Coordinator struct {
	cfg config.Config

	snapshot atomic.Pointer[graphSnapshot]

	updatingVoronoi atomic.Bool
	isPlanning      atomic.Bool

	localVertices atomic.Pointer[[]graphbuild.PixelPoint]

	stats     *telemetry.PhaseStats
	lastStats atomic.Pointer[map[string]time.Duration]
}

// New builds a Coordinator with no graph yet; MapToGraph must succeed at
// least once before Plan can return anything.
func New(cfg config.Config, enableTimings bool) *Coordinator {
	return &Coordinator{cfg: cfg, stats: telemetry.NewPhaseStats(enableTimings)}
}

// SetLocalVertices implements §4.10's set_local_vertices: a side-input
// fed into VoronoiBuilder as extra seeds on the next MapToGraph call
// (e.g. local-costmap corners for edge anchoring, §4.2).
func (c *Coordinator) SetLocalVertices(vs []graphbuild.PixelPoint) {
	cp := append([]graphbuild.PixelPoint{}, vs...)
	c.localVertices.Store(&cp)
}

// MapToGraph implements §4.10's map_to_graph: an atomic rebuild of the
// Voronoi graph, centroids, and H-signature coefficients from grid.
// Returns false (leaving the prior graph intact) if grid is empty
// (EmptyGrid) or a plan is currently in progress (BuildContended).
func (c *Coordinator) MapToGraph(grid *gridview.Grid) bool {
	if grid.Empty() {
		telemetry.Logger.Warn().Msg("map_to_graph: empty grid, graph unchanged")
		return false
	}
	if c.isPlanning.Load() {
		telemetry.Logger.Warn().Msg("map_to_graph: contended by an in-progress plan, retry next tick")
		return false
	}

	c.updatingVoronoi.Store(true)
	defer c.updatingVoronoi.Store(false)

	telemetry.Banner("🗺️  rebuilding voronoi graph")
	view := gridview.NewView(grid)

	var edges []graphbuild.VoronoiEdge
	c.stats.Track("voronoi_build", func() {
		edges = voronoi.Build(view, voronoi.Options{
			OccupancyThreshold: c.cfg.OccupancyThreshold,
			Stride:             c.cfg.Stride(),
			ExtraSeeds:         c.extraSeeds(),
		})
	})

	oracle := graphbuild.NewCollisionOracle(view, c.cfg.CollisionThreshold, c.cfg.LineCheckResolution)

	var graph *graphbuild.Graph
	c.stats.Track("graph_assemble", func() {
		graph = graphbuild.Assemble(edges, oracle, graphbuild.AssembleOptions{
			VertexHashResolution:      c.cfg.VertexHashResolution,
			NodeConnectionThresholdSq: c.cfg.NodeConnectionThresholdSq,
			FaithfulStitchingBug:      c.cfg.FaithfulStitchingBug,
		})
	})

	var centroidResult centroid.Result
	c.stats.Track("centroid_extract", func() {
		centroidResult = centroid.Extract(view, centroid.Options{
			Scale:              c.cfg.OpenCVScale,
			OccupancyThreshold: c.cfg.OccupancyThreshold,
			SimplifyEpsilon:    1.0,
		})
	})

	snap := &graphSnapshot{
		view:      view,
		graph:     graph,
		oracle:    oracle,
		scorer:    homotopy.NewScorer(centroidResult.Centroids, centroidResult.Coefficients),
		centroids: centroidResult.Centroids,
	}
	c.snapshot.Store(snap)

	telemetry.Logger.Info().Int("nodes", graph.NumNodes()).Int("obstacles", len(centroidResult.Centroids)).Msg("graph rebuilt")
	return true
}

// Plan implements §4.10's plan: busy-waits until no rebuild is in
// progress, snapshots the current graph exactly once, and runs §4.6-4.9
// against that snapshot. While it runs, MapToGraph calls return false
// (BuildContended) rather than waiting.
// Returns an empty list, never an error, on any planning failure, per
// §7's "coordinator does not throw across the boundary".
func (c *Coordinator) Plan(start, goal graphbuild.PixelPoint, k int) []graphbuild.SmoothPath {
	for c.updatingVoronoi.Load() {
		runtime.Gosched()
	}

	c.isPlanning.Store(true)
	defer c.isPlanning.Store(false)

	snap := c.snapshot.Load()
	if snap == nil {
		telemetry.Logger.Warn().Err(ErrNoGraph).Msg("plan: nothing to plan against")
		return nil
	}

	var result []graphbuild.SmoothPath
	c.stats.Track("plan_total", func() {
		result = c.planAgainst(snap, start, goal, k)
	})
	c.lastStats.Store(ptrTo(c.stats.Snapshot()))
	return result
}

func (c *Coordinator) planAgainst(snap *graphSnapshot, start, goal graphbuild.PixelPoint, k int) []graphbuild.SmoothPath {
	index := astar.NewIndex(snap.graph)

	startNode, err := index.NearestNode(snap.oracle, start)
	if err != nil {
		telemetry.Logger.Warn().Err(err).Msg("plan: start has no reachable graph node")
		return nil
	}
	goalNode, err := index.NearestNode(snap.oracle, goal)
	if err != nil {
		telemetry.Logger.Warn().Err(err).Msg("plan: goal has no reachable graph node")
		return nil
	}

	// kshortest.Find tombstones and restores adjacency slots in place, so
	// it works on a per-plan copy and the shared snapshot stays immutable.
	work := &graphbuild.Graph{Positions: snap.graph.Positions, Adjacency: make([][]int, len(snap.graph.Adjacency))}
	for i, neighbors := range snap.graph.Adjacency {
		work.Adjacency[i] = append([]int{}, neighbors...)
	}

	paths, err := kshortest.Find(work, startNode, goalNode, kshortest.Options{
		K:      k,
		Theta:  c.cfg.HClassThreshold,
		Scorer: snap.scorer,
	})
	if err != nil {
		telemetry.Logger.Warn().Err(err).Msg("plan: no path found")
		return nil
	}

	smoothOpts := bezier.Options{
		MaxControlPoints: c.cfg.BezierMaxN,
		MinNodeSepSq:     c.cfg.MinNodeSepSq,
		ExtraPointDist:   c.cfg.ExtraPointDistance,
		Resolution:       snap.view.Resolution(),
	}

	var out []graphbuild.SmoothPath
	for _, p := range paths {
		full := graphbuild.FullPath(start, goal, p.Nodes, snap.graph)
		smoothed, ok := bezier.Smooth(full, snap.oracle, smoothOpts)
		if !ok {
			telemetry.Logger.Warn().Msg("plan: degraded map, omitting path") // §7 DegradedMap
			continue
		}
		out = append(out, smoothed)
	}
	return out
}

// Adjacency returns a read-only observer over the current graph's
// adjacency lists, for visualization (§4.10). Lock-free per §5: a caller
// that disregards the contract may observe a graph mid-rebuild.
func (c *Coordinator) Adjacency() [][]int {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.graph.Adjacency
}

// Edges returns the current graph's live edges as positioned pairs, for
// visualization.
func (c *Coordinator) Edges() []graphbuild.VoronoiEdge {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil
	}
	g := snap.graph
	var out []graphbuild.VoronoiEdge
	for i, neighbors := range g.Adjacency {
		for _, j := range neighbors {
			if j < 0 || j <= i {
				continue
			}
			out = append(out, graphbuild.VoronoiEdge{A: g.Positions[i], B: g.Positions[j]})
		}
	}
	return out
}

// DisconnectedNodes delegates to the current graph's observer of the
// same name (§4.10).
func (c *Coordinator) DisconnectedNodes() []int {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.graph.DisconnectedNodes()
}

// DumpAdjacency writes a deterministic text dump of the current graph's
// adjacency, the Go equivalent of the original's printEdges() debug
// affordance (SPEC_FULL §3 supplement 1).
func (c *Coordinator) DumpAdjacency(w io.Writer) error {
	snap := c.snapshot.Load()
	if snap == nil {
		_, err := fmt.Fprintln(w, "(no graph built yet)")
		return err
	}
	for i, neighbors := range snap.graph.Adjacency {
		if _, err := fmt.Fprintf(w, "%d @ (%.2f, %.2f): %v\n", i, snap.graph.Positions[i].X, snap.graph.Positions[i].Y, neighbors); err != nil {
			return err
		}
	}
	return nil
}

// LastPlanStats returns the phase totals as captured at the end of the
// most recent Plan call, or nil if timing instrumentation is disabled or
// no plan has run yet (SPEC_FULL §3 supplement 2). The totals are
// cumulative over every MapToGraph and Plan call of this Coordinator,
// not the timings of that one call alone.
func (c *Coordinator) LastPlanStats() map[string]time.Duration {
	if !c.stats.Enabled {
		return nil
	}
	p := c.lastStats.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (c *Coordinator) extraSeeds() []graphbuild.PixelPoint {
	p := c.localVertices.Load()
	if p == nil {
		return nil
	}
	return *p
}

func ptrTo[T any](v T) *T { return &v }
