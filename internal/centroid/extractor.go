package centroid

import (
	"math/cmplx"

	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
)

// Options mirrors the centroid-extraction inputs of §4.5 and §6.
type Options struct {
	Scale              float64 // open_cv_scale, default 0.25
	OccupancyThreshold int16
	SimplifyEpsilon    float64 // Douglas-Peucker epsilon for contour thinning, in downscaled px
}

// Result bundles the centroids and per-obstacle H-signature coefficients
// of §4.5, both indexed the same way (Coefficients[k] belongs to
// Centroids[k]).
type Result struct {
	Centroids    []complex128
	Coefficients []complex128
}

// Extract implements §4.5 end to end: downscale, Canny-Deriche-style edge
// pass, external-contour tracing (via connected components restricted to
// edge pixels), Douglas-Peucker thinning, first-order moments, and the
// obstacle-coefficient construction used by the H-signature.
func Extract(view *gridview.View, opts Options) Result {
	scale := opts.Scale
	if scale <= 0 {
		scale = 0.25
	}

	binary, _, _ := Downscale(view, scale, opts.OccupancyThreshold)
	edges := SobelEdges(binary)
	components := connectedComponents(binary)

	var centroids []complex128
	for _, comp := range components {
		boundary := boundaryOf(comp, edges)
		hull := convexHull(boundary)
		if opts.SimplifyEpsilon > 0 {
			hull = simplifyContour(hull, opts.SimplifyEpsilon)
		}
		c, ok := centroidOf(hull)
		if !ok {
			continue // ContourDegenerate: discarded per §7
		}
		// Rescale from downscaled pixel space back to the original
		// pixel frame, per §4.5's "expressed in the original pixel frame".
		centroids = append(centroids, complex(c.X/scale, c.Y/scale))
	}

	width, height := view.Size()
	coeffs := obstacleCoefficients(centroids, width, height)
	return Result{Centroids: centroids, Coefficients: coeffs}
}

// obstacleCoefficients implements the §4.5 construction:
//
//	a = b = (M-1)/2
//	BL = 0, TR = (W-1) + i(H-1)
//	f(z) = (z-BL)^a + (z-TR)^b
//	A_k = f(c_k) / prod_{j != k} (c_k - c_j)
func obstacleCoefficients(centroids []complex128, width, height int) []complex128 {
	m := len(centroids)
	if m == 0 {
		return nil
	}
	a := complex(float64(m-1)/2, 0)
	bl := complex(0, 0)
	tr := complex(float64(width-1), float64(height-1))

	f := func(z complex128) complex128 {
		return cmplx.Pow(z-bl, a) + cmplx.Pow(z-tr, a)
	}

	const epsilon = 1e-9
	coeffs := make([]complex128, m)
	for k, ck := range centroids {
		denom := complex(1, 0)
		for j, cj := range centroids {
			if j == k {
				continue
			}
			denom *= ck - cj
		}
		if cmplx.Abs(denom) < epsilon {
			// Two extracted obstacle centroids coincide to within
			// floating tolerance; the coefficient is undefined, so
			// contribute nothing rather than divide by ~0.
			coeffs[k] = 0
			continue
		}
		coeffs[k] = f(ck) / denom
	}
	return coeffs
}

// CentroidsAsPixels is a convenience for callers (e.g. the homotopy
// scorer's near-centroid guard) that need centroid positions as
// PixelPoints instead of complex128.
func CentroidsAsPixels(centroids []complex128) []graphbuild.PixelPoint {
	out := make([]graphbuild.PixelPoint, len(centroids))
	for i, c := range centroids {
		out[i] = graphbuild.PixelPoint{X: real(c), Y: imag(c)}
	}
	return out
}
