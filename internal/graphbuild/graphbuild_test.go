package graphbuild

import (
	"testing"

	"github.com/benedrone/topoplan/internal/gridview"
	"github.com/stretchr/testify/require"
)

func emptyGridView(t *testing.T, w, h int) *gridview.View {
	t.Helper()
	g, err := gridview.NewGrid("map", 1.0, w, h, make([]int16, w*h))
	require.NoError(t, err)
	return gridview.NewView(g)
}

func TestCollisionOracleFreeSegment(t *testing.T) {
	view := emptyGridView(t, 10, 10)
	oracle := NewCollisionOracle(view, 85, 0.1)
	require.False(t, oracle.EdgeCollides(PixelPoint{0, 0}, PixelPoint{9, 9}))
}

func TestCollisionOracleBlockedSegment(t *testing.T) {
	g, err := gridview.NewGrid("map", 1.0, 10, 10, make([]int16, 100))
	require.NoError(t, err)
	g.Data[5*10+5] = 100
	view := gridview.NewView(g)
	oracle := NewCollisionOracle(view, 85, 0.1)

	require.True(t, oracle.EdgeCollides(PixelPoint{0, 5}, PixelPoint{9, 5}))
	require.False(t, oracle.EdgeCollides(PixelPoint{0, 0}, PixelPoint{0, 9}))
}

func TestPointCollides(t *testing.T) {
	g, err := gridview.NewGrid("map", 1.0, 4, 4, make([]int16, 16))
	require.NoError(t, err)
	g.Data[2*4+2] = 90
	view := gridview.NewView(g)
	oracle := NewCollisionOracle(view, 85, 0.1)

	require.True(t, oracle.PointCollides(PixelPoint{2.4, 2.4}))
	require.False(t, oracle.PointCollides(PixelPoint{0.1, 0.1}))
}

func TestAssembleDedupsVerticesAndIsSymmetric(t *testing.T) {
	view := emptyGridView(t, 20, 20)
	oracle := NewCollisionOracle(view, 85, 0.1)

	edges := []VoronoiEdge{
		{A: PixelPoint{1, 1}, B: PixelPoint{5, 5}},
		{A: PixelPoint{5.001, 5.002}, B: PixelPoint{9, 1}}, // same node as above within hash resolution
	}
	g := Assemble(edges, oracle, AssembleOptions{VertexHashResolution: 0.1, NodeConnectionThresholdSq: 1})

	require.Equal(t, 3, g.NumNodes())
	require.True(t, g.IsSymmetric())
}

func TestAssembleDropsEdgesTouchingObstacles(t *testing.T) {
	g, err := gridview.NewGrid("map", 1.0, 20, 20, make([]int16, 400))
	require.NoError(t, err)
	g.Data[5*20+5] = 100 // obstacle cell
	view := gridview.NewView(g)
	oracle := NewCollisionOracle(view, 85, 0.1)

	edges := []VoronoiEdge{
		{A: PixelPoint{5.1, 5.1}, B: PixelPoint{10, 10}}, // endpoint in obstacle cell
		{A: PixelPoint{1, 1}, B: PixelPoint{2, 2}},
	}
	graph := Assemble(edges, oracle, AssembleOptions{VertexHashResolution: 0.1, NodeConnectionThresholdSq: 1})

	require.Equal(t, 2, graph.NumNodes())
}

func TestStitchingHealsDanglingTip(t *testing.T) {
	view := emptyGridView(t, 20, 20)
	oracle := NewCollisionOracle(view, 85, 0.1)

	// Two separate chains, with endpoints 0.9 px apart: a single pruned
	// edge that would otherwise leave a degree-1 dangling tip.
	edges := []VoronoiEdge{
		{A: PixelPoint{0, 0}, B: PixelPoint{5, 0}},
		{A: PixelPoint{5.9, 0}, B: PixelPoint{10, 0}},
	}
	graph := Assemble(edges, oracle, AssembleOptions{
		VertexHashResolution:      0.1,
		NodeConnectionThresholdSq: 1, // 1px^2, (0.9)^2 = 0.81 <= 1
	})

	require.True(t, graph.IsSymmetric())
	// node for (5,0) and node for (5.9,0) should now be connected.
	var idxA, idxB int = -1, -1
	for i, p := range graph.Positions {
		if p == (PixelPoint{5, 0}) {
			idxA = i
		}
		if p == (PixelPoint{5.9, 0}) {
			idxB = i
		}
	}
	require.NotEqual(t, -1, idxA)
	require.NotEqual(t, -1, idxB)
	require.True(t, alreadyConnected(graph, idxA, idxB))
}

func TestFaithfulStitchingBugIgnoresYDelta(t *testing.T) {
	view := emptyGridView(t, 20, 20)
	oracle := NewCollisionOracle(view, 85, 0.1)

	edges := []VoronoiEdge{
		{A: PixelPoint{0, 0}, B: PixelPoint{5, 0}},
		{A: PixelPoint{5, 5}, B: PixelPoint{10, 5}}, // far in y, but the bug zeroes the y term
	}
	graph := Assemble(edges, oracle, AssembleOptions{
		VertexHashResolution:      0.1,
		NodeConnectionThresholdSq: 1,
		FaithfulStitchingBug:      true,
	})

	var idxA, idxB int = -1, -1
	for i, p := range graph.Positions {
		if p == (PixelPoint{5, 0}) {
			idxA = i
		}
		if p == (PixelPoint{5, 5}) {
			idxB = i
		}
	}
	require.True(t, alreadyConnected(graph, idxA, idxB))
}

func TestDisconnectedNodes(t *testing.T) {
	g := &Graph{
		Positions: []PixelPoint{{0, 0}, {1, 1}, {2, 2}},
		Adjacency: [][]int{{1}, {0}, {}},
	}
	require.Equal(t, []int{2}, g.DisconnectedNodes())
}
