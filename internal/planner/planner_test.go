package planner

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benedrone/topoplan/internal/config"
	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
)

func emptyGrid(t *testing.T, w, h int) *gridview.Grid {
	t.Helper()
	g, err := gridview.NewGrid("map", 1.0, w, h, make([]int16, w*h))
	require.NoError(t, err)
	return g
}

func TestPlanBeforeMapToGraphReturnsEmpty(t *testing.T) {
	c := New(config.Default(), false)
	paths := c.Plan(graphbuild.PixelPoint{X: 0, Y: 0}, graphbuild.PixelPoint{X: 5, Y: 5}, 1)
	require.Empty(t, paths)
}

func TestMapToGraphRejectsEmptyGrid(t *testing.T) {
	c := New(config.Default(), false)
	ok := c.MapToGraph(&gridview.Grid{})
	require.False(t, ok)
}

func TestMapToGraphRejectsDuringPlan(t *testing.T) {
	c := New(config.Default(), false)
	c.isPlanning.Store(true)
	ok := c.MapToGraph(emptyGrid(t, 10, 10))
	require.False(t, ok)
}

func TestMapToGraphThenPlanTrivialCorridor(t *testing.T) {
	cfg := config.Default()
	cfg.NumPaths = 1
	c := New(cfg, false)

	// An obstacle-free grid has no occupied cells to seed the Voronoi
	// diagram with, so SetLocalVertices feeds the map corners as extra
	// seeds (§4.2) the way a caller anchoring against a local costmap
	// would, giving the diagram enough sites to produce a usable graph.
	c.SetLocalVertices([]graphbuild.PixelPoint{
		{X: 0, Y: 0}, {X: 19, Y: 0}, {X: 19, Y: 19}, {X: 0, Y: 19},
	})

	grid := emptyGrid(t, 20, 20)
	require.True(t, c.MapToGraph(grid))

	paths := c.Plan(graphbuild.PixelPoint{X: 2, Y: 10}, graphbuild.PixelPoint{X: 18, Y: 10}, 1)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		require.NotEmpty(t, p)
	}
}

func TestAdjacencyAndDisconnectedNodesObservers(t *testing.T) {
	c := New(config.Default(), false)
	require.Nil(t, c.Adjacency())
	require.Nil(t, c.DisconnectedNodes())
	require.Nil(t, c.Edges())

	require.True(t, c.MapToGraph(emptyGrid(t, 20, 20)))
	require.True(t, c.snapshot.Load().graph.IsSymmetric())
}

func TestDumpAdjacencyWithoutGraph(t *testing.T) {
	c := New(config.Default(), false)
	var buf bytes.Buffer
	require.NoError(t, c.DumpAdjacency(&buf))
	require.Contains(t, buf.String(), "no graph built yet")
}

func TestSetLocalVerticesFeedsExtraSeeds(t *testing.T) {
	c := New(config.Default(), false)
	c.SetLocalVertices([]graphbuild.PixelPoint{{X: 1, Y: 1}})
	require.Len(t, c.extraSeeds(), 1)
}

func TestLastPlanStatsNilWhenDisabled(t *testing.T) {
	c := New(config.Default(), false)
	require.True(t, c.MapToGraph(emptyGrid(t, 20, 20)))
	c.Plan(graphbuild.PixelPoint{X: 2, Y: 2}, graphbuild.PixelPoint{X: 18, Y: 18}, 1)
	require.Nil(t, c.LastPlanStats())
}

func TestLastPlanStatsPopulatedWhenEnabled(t *testing.T) {
	c := New(config.Default(), true)
	require.True(t, c.MapToGraph(emptyGrid(t, 20, 20)))
	c.Plan(graphbuild.PixelPoint{X: 2, Y: 2}, graphbuild.PixelPoint{X: 18, Y: 18}, 1)
	require.NotNil(t, c.LastPlanStats())
}
