package graphbuild

import "math"

// vertexHash implements the §3 vertex-identity scheme: two endpoints are
// the same node iff their coordinates agree after rounding to a fixed
// resolution. Packed as (round(x) << 16) ^ round(y), which requires
// W, H < 2^16 per §9's documented assertion.
func vertexHash(p PixelPoint, resolution float64) uint32 {
	rx := roundTo(p.X, resolution)
	ry := roundTo(p.Y, resolution)
	return (uint32(rx) << 16) ^ uint32(ry)
}

func roundTo(v, resolution float64) int32 {
	if resolution <= 0 {
		resolution = 1
	}
	snapped := math.Round(v/resolution) * resolution
	return int32(math.Round(snapped))
}

// assertHashableBounds reports, without panicking, whether W and H fit in
// 16 bits, the §9 assumption vertexHash relies on. Nothing calls it:
// Assemble hashes vertices without checking this bound, so larger grids
// are hashed unchecked.
func assertHashableBounds(width, height int) bool {
	const maxDim = 1 << 16
	return width < maxDim && height < maxDim
}
