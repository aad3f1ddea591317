// Package centroid implements §4.5: downscaling the occupancy grid,
// Canny-Deriche-style edge extraction, external-contour tracing (grounded
// on go.viam.com/rdk's rimage.FindContours, which keeps its binary image
// in a gonum *mat.Dense), first-order image moments, and the §4.5
// obstacle-coefficient construction feeding the H-signature.
package centroid

import (
	"gonum.org/v1/gonum/mat"

	"github.com/benedrone/topoplan/internal/gridview"
)

// Downscale box-averages the occupancy grid by scale (0 < scale <= 1,
// default 0.25 per §6's open_cv_scale) and thresholds the result into a
// binary *mat.Dense the way rimage's contour utilities expect their
// source image, mirroring the teacher-adjacent pipeline described in §4.5
// ("downscaled... edges extracted... contours traced").
func Downscale(view *gridview.View, scale float64, occupancyThreshold int16) (*mat.Dense, int, int) {
	width, height := view.Size()
	downW := maxInt(1, int(float64(width)*scale))
	downH := maxInt(1, int(float64(height)*scale))

	out := mat.NewDense(downH, downW, nil)

	blockW := float64(width) / float64(downW)
	blockH := float64(height) / float64(downH)

	for dr := 0; dr < downH; dr++ {
		rowStart := int(float64(dr) * blockH)
		rowEnd := maxInt(rowStart+1, int(float64(dr+1)*blockH))
		if rowEnd > height {
			rowEnd = height
		}
		for dc := 0; dc < downW; dc++ {
			colStart := int(float64(dc) * blockW)
			colEnd := maxInt(colStart+1, int(float64(dc+1)*blockW))
			if colEnd > width {
				colEnd = width
			}

			var sum float64
			var count int
			for r := rowStart; r < rowEnd; r++ {
				for c := colStart; c < colEnd; c++ {
					occ, err := view.Occ(c, r)
					if err != nil {
						continue
					}
					sum += float64(occ)
					count++
				}
			}
			val := 0.0
			if count > 0 && sum/float64(count) >= float64(occupancyThreshold) {
				val = 1.0
			}
			out.Set(dr, dc, val)
		}
	}
	return out, downW, downH
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
