package voronoi

import (
	"testing"

	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
	"github.com/stretchr/testify/require"
)

func TestBuildTwoSitesProducesSingleBisectorEdge(t *testing.T) {
	data := make([]int16, 10*10)
	data[5*10+2] = 100
	data[5*10+7] = 100
	g, err := gridview.NewGrid("map", 1, 10, 10, data)
	require.NoError(t, err)
	view := gridview.NewView(g)

	edges := Build(view, Options{OccupancyThreshold: 100, Stride: 1})
	require.Len(t, edges, 1)

	// Every edge point should lie roughly equidistant from both sites,
	// since with exactly two sites the whole diagram is their bisector
	// clipped to the rectangle.
	siteA := graphbuild.PixelPoint{X: 2, Y: 5}
	siteB := graphbuild.PixelPoint{X: 7, Y: 5}
	for _, e := range edges {
		for _, p := range []graphbuild.PixelPoint{e.A, e.B} {
			require.InDelta(t, p.DistSq(siteA), p.DistSq(siteB), 1e-6)
		}
	}
}

func TestBuildNoSitesReturnsNoEdges(t *testing.T) {
	data := make([]int16, 10*10)
	g, err := gridview.NewGrid("map", 1, 10, 10, data)
	require.NoError(t, err)
	view := gridview.NewView(g)

	edges := Build(view, Options{OccupancyThreshold: 100, Stride: 1})
	require.Empty(t, edges)
}

func TestBuildIncludesExtraSeeds(t *testing.T) {
	data := make([]int16, 10*10)
	data[5*10+2] = 100
	g, err := gridview.NewGrid("map", 1, 10, 10, data)
	require.NoError(t, err)
	view := gridview.NewView(g)

	withoutSeed := Build(view, Options{OccupancyThreshold: 100, Stride: 1})
	require.Empty(t, withoutSeed)

	withSeed := Build(view, Options{
		OccupancyThreshold: 100,
		Stride:             1,
		ExtraSeeds:         []graphbuild.PixelPoint{{X: 8, Y: 8}},
	})
	require.NotEmpty(t, withSeed)
}
