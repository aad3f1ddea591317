// Package homotopy computes the complex H-signature of a path (§4.5,
// §4.8): a complex number that depends only on the path's homotopy class
// among paths sharing the same endpoints in the plane punctured by the
// obstacle centroids.
package homotopy

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/cmplxs"

	"github.com/benedrone/topoplan/internal/graphbuild"
)

// Scorer holds the per-map obstacle centroids and coefficients that every
// path's H-signature is computed against.
type Scorer struct {
	Centroids    []complex128
	Coefficients []complex128
}

// NewScorer pairs centroids with their §4.5 coefficients.
func NewScorer(centroids, coefficients []complex128) *Scorer {
	return &Scorer{Centroids: centroids, Coefficients: coefficients}
}

// Score computes the H-signature of a pixel-space path, partitioning its
// edges across GOMAXPROCS workers and summing their partial complex
// sums (§5.2). ok is false if any path vertex lies within one pixel of
// an obstacle centroid, where log(|z - c_k|) is undefined per §7's
// "numerical errors inside H-signature" guard.
func (s *Scorer) Score(path []graphbuild.PixelPoint) (complex128, bool) {
	if len(path) < 2 || len(s.Centroids) == 0 {
		return 0, true
	}
	if err := s.checkNearCentroid(path); err != nil {
		return 0, false
	}

	numEdges := len(path) - 1
	workers := runtime.GOMAXPROCS(0)
	if workers > numEdges {
		workers = numEdges
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]complex128, workers)
	perWorker := (numEdges + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if start >= numEdges {
			continue
		}
		if end > numEdges {
			end = numEdges
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var sum complex128
			for i := start; i < end; i++ {
				sum += s.edgeContribution(path[i], path[i+1])
			}
			partials[w] = sum
		}(w, start, end)
	}
	wg.Wait()

	return cmplxs.Sum(partials), true
}

// edgeContribution sums, over every obstacle centroid, the log-magnitude
// and wrapped-angle difference introduced by moving from p to q, weighted
// by that obstacle's coefficient — the discretized contour integral of
// §4.5.
func (s *Scorer) edgeContribution(p, q graphbuild.PixelPoint) complex128 {
	pc := complex(p.X, p.Y)
	qc := complex(q.X, q.Y)

	var edgeSum complex128
	for j, ck := range s.Centroids {
		realPart := math.Log(cmplx.Abs(qc-ck)) - math.Log(cmplx.Abs(pc-ck))
		imPart := wrapAngle(cmplx.Phase(qc-ck) - cmplx.Phase(pc-ck))
		edgeSum += complex(realPart, imPart) * s.Coefficients[j]
	}
	return edgeSum
}

// wrapAngle folds an angle difference into [-pi, pi], taking the smallest
// representation the way the original loop of while(>pi) / while(<-pi)
// subtractions does.
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

type nearCentroidError struct{}

func (nearCentroidError) Error() string {
	return "homotopy: path vertex within 1px of an obstacle centroid"
}

func (s *Scorer) checkNearCentroid(path []graphbuild.PixelPoint) error {
	for _, p := range path {
		for _, c := range s.Centroids {
			d := p.DistSq(graphbuild.PixelPoint{X: real(c), Y: imag(c)})
			if d < 1.0 {
				return nearCentroidError{}
			}
		}
	}
	return nil
}

// Distinct reports whether two H-signatures differ by more than the
// relative threshold θ of §4.8 step 5, guarding the near-zero-denominator
// case per §9's robustness note by falling back to an absolute
// comparison when |hCand| is small.
func Distinct(hCand, hPrev complex128, theta float64) bool {
	const magEpsilon = 1e-6
	mag := cmplx.Abs(hCand)
	if mag < magEpsilon {
		return cmplx.Abs(hCand-hPrev) > theta
	}
	return cmplx.Abs(hCand-hPrev)/mag > theta
}
