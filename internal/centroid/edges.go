package centroid

import "gonum.org/v1/gonum/mat"

// SobelEdges applies a Sobel gradient-magnitude pass to a binary image
// and thresholds it, standing in for the teacher-adjacent
// NewCannyDericheEdgeDetector pipeline referenced by go.viam.com/rdk's
// rimage package tests: a single-threshold gradient edge map rather than
// full non-max-suppression-plus-hysteresis Canny, since §9 notes that
// contour extraction is "specified by behavior, not any particular
// library."
func SobelEdges(bin *mat.Dense) *mat.Dense {
	rows, cols := bin.Dims()
	out := mat.NewDense(rows, cols, nil)

	at := func(r, c int) float64 {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return 0
		}
		return bin.At(r, c)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gx := at(r-1, c+1) + 2*at(r, c+1) + at(r+1, c+1) -
				at(r-1, c-1) - 2*at(r, c-1) - at(r+1, c-1)
			gy := at(r+1, c-1) + 2*at(r+1, c) + at(r+1, c+1) -
				at(r-1, c-1) - 2*at(r-1, c) - at(r-1, c+1)

			mag := gx*gx + gy*gy
			if mag > 0 {
				out.Set(r, c, 1)
			}
		}
	}
	return out
}
