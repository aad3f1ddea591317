package homotopy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

func straightPath(a, b graphbuild.PixelPoint, n int) []graphbuild.PixelPoint {
	path := make([]graphbuild.PixelPoint, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		path[i] = graphbuild.PixelPoint{
			X: a.X + t*(b.X-a.X),
			Y: a.Y + t*(b.Y-a.Y),
		}
	}
	return path
}

func TestScoreReparameterizationInvariant(t *testing.T) {
	scorer := NewScorer([]complex128{complex(50, 50)}, []complex128{complex(1, 0.5)})

	a := graphbuild.PixelPoint{X: 0, Y: 0}
	b := graphbuild.PixelPoint{X: 100, Y: 0}

	coarse := straightPath(a, b, 2)
	fine := straightPath(a, b, 20)

	hCoarse, ok := scorer.Score(coarse)
	require.True(t, ok)
	hFine, ok := scorer.Score(fine)
	require.True(t, ok)

	require.InDelta(t, real(hCoarse), real(hFine), 1e-6)
	require.InDelta(t, imag(hCoarse), imag(hFine), 1e-6)
}

func TestScoreIdenticalNodeSequenceMatchesExactly(t *testing.T) {
	scorer := NewScorer([]complex128{complex(20, 30), complex(70, 10)}, []complex128{complex(1, 0), complex(0, 1)})

	path := []graphbuild.PixelPoint{{X: 5, Y: 5}, {X: 40, Y: 15}, {X: 95, Y: 60}}

	h1, ok1 := scorer.Score(path)
	h2, ok2 := scorer.Score(append([]graphbuild.PixelPoint{}, path...))
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, h1, h2)
}

func TestScoreDistinctPathsAroundOppositeSidesOfObstacleDiffer(t *testing.T) {
	scorer := NewScorer([]complex128{complex(50, 50)}, []complex128{complex(1, 0)})

	above := []graphbuild.PixelPoint{{X: 0, Y: 0}, {X: 50, Y: 10}, {X: 100, Y: 0}}
	below := []graphbuild.PixelPoint{{X: 0, Y: 0}, {X: 50, Y: 90}, {X: 100, Y: 0}}

	hAbove, ok := scorer.Score(above)
	require.True(t, ok)
	hBelow, ok := scorer.Score(below)
	require.True(t, ok)

	require.True(t, Distinct(hAbove, hBelow, 0.2))
}

func TestScoreRejectsPathNearCentroid(t *testing.T) {
	scorer := NewScorer([]complex128{complex(10, 10)}, []complex128{complex(1, 0)})
	path := []graphbuild.PixelPoint{{X: 0, Y: 0}, {X: 10.2, Y: 10.2}}

	_, ok := scorer.Score(path)
	require.False(t, ok)
}

func TestScoreEmptyObstacleSetReturnsZero(t *testing.T) {
	scorer := NewScorer(nil, nil)
	path := straightPath(graphbuild.PixelPoint{X: 0, Y: 0}, graphbuild.PixelPoint{X: 10, Y: 10}, 5)
	h, ok := scorer.Score(path)
	require.True(t, ok)
	require.Equal(t, complex128(0), h)
}

func TestDistinctFallsBackToAbsoluteNearZeroMagnitude(t *testing.T) {
	require.True(t, Distinct(complex(1e-9, 0), complex(0.5, 0), 0.2))
	require.False(t, Distinct(complex(1e-9, 0), complex(1e-10, 0), 0.2))
}
