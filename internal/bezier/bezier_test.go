package bezier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
)

func emptyOracle(t *testing.T, w, h int) *graphbuild.CollisionOracle {
	t.Helper()
	g, err := gridview.NewGrid("map", 1.0, w, h, make([]int16, w*h))
	require.NoError(t, err)
	view := gridview.NewView(g)
	return graphbuild.NewCollisionOracle(view, 85, 0.1)
}

func TestSmoothStraightLineProducesSamples(t *testing.T) {
	oracle := emptyOracle(t, 20, 20)
	full := []graphbuild.PixelPoint{{X: 0, Y: 5}, {X: 5, Y: 5}, {X: 10, Y: 5}, {X: 15, Y: 5}}

	out, ok := Smooth(full, oracle, Options{MaxControlPoints: 10, MinNodeSepSq: 0, ExtraPointDist: 1, Resolution: 1})
	require.True(t, ok)
	require.NotEmpty(t, out)
	require.InDelta(t, 0.0, out[0].X, 1e-9)
	require.InDelta(t, 15.0, out[len(out)-1].X, 1e-9)
}

func TestSmoothDegradedMapOnCollidingAdjacentNodes(t *testing.T) {
	g, err := gridview.NewGrid("map", 1.0, 20, 20, make([]int16, 400))
	require.NoError(t, err)
	g.Data[5*20+5] = 100
	view := gridview.NewView(g)
	oracle := graphbuild.NewCollisionOracle(view, 85, 0.1)

	full := []graphbuild.PixelPoint{{X: 5, Y: 5}, {X: 10, Y: 5}}
	_, ok := Smooth(full, oracle, Options{MaxControlPoints: 10, Resolution: 1})
	require.False(t, ok)
}

func TestSmoothSplitsSubsectionsOnMaxControlPoints(t *testing.T) {
	oracle := emptyOracle(t, 50, 50)
	full := make([]graphbuild.PixelPoint, 0, 25)
	for i := 0; i < 25; i++ {
		full = append(full, graphbuild.PixelPoint{X: float64(i), Y: 5})
	}

	out, ok := Smooth(full, oracle, Options{MaxControlPoints: 5, ExtraPointDist: 1, Resolution: 1})
	require.True(t, ok)
	// More than one 21-sample subsection must have been concatenated.
	require.Greater(t, len(out), samplesPerSubsection)
}

func TestSmoothSubsectionBoundariesOverlapExactly(t *testing.T) {
	oracle := emptyOracle(t, 50, 50)
	full := make([]graphbuild.PixelPoint, 0, 15)
	for i := 0; i < 15; i++ {
		full = append(full, graphbuild.PixelPoint{X: float64(i), Y: 5})
	}

	// ExtraPointDist: 3 puts the continuity anchor at x=7, past the next
	// raw node at x=5, so the anchor can't coincidentally land on a raw
	// node and mask a missing overlap the way an ExtraPointDist equal to
	// the node spacing would.
	out, ok := Smooth(full, oracle, Options{MaxControlPoints: 5, MinNodeSepSq: 0, ExtraPointDist: 3, Resolution: 1})
	require.True(t, ok)
	require.GreaterOrEqual(t, len(out), 2*samplesPerSubsection)

	// The last sample of one subsection (t=1, its last control point L)
	// must exactly match the first sample of the next (t=0, seeded with
	// that same L), per §4.9 step 2's "starting from the last accepted
	// point" overlap.
	boundary := out[samplesPerSubsection-1]
	next := out[samplesPerSubsection]
	require.InDelta(t, boundary.X, next.X, 1e-9)
	require.InDelta(t, boundary.Y, next.Y, 1e-9)
}

func TestBernsteinAtEndpointsMatchesControls(t *testing.T) {
	controls := []graphbuild.PixelPoint{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 0}}
	p0 := evalBernstein(controls, 2, 0)
	p1 := evalBernstein(controls, 2, 1)
	require.Equal(t, controls[0], p0)
	require.InDelta(t, controls[2].X, p1.X, 1e-9)
	require.InDelta(t, controls[2].Y, p1.Y, 1e-9)
}

func TestThinControlsKeepsLastPoint(t *testing.T) {
	controls := []graphbuild.PixelPoint{{X: 0, Y: 0}, {X: 0.01, Y: 0.01}, {X: 10, Y: 10}}
	thinned := thinControls(controls, 1.0)
	require.Equal(t, controls[len(controls)-1], thinned[len(thinned)-1])
	require.Len(t, thinned, 2) // middle point dropped, within sep threshold
}
