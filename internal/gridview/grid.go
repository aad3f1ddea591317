// Package gridview provides a read-only accessor over an occupancy grid.
package gridview

import (
	"fmt"
	"math"
)

// ErrOutOfBounds is returned by Occ/InBounds-adjacent lookups that fall
// outside the grid rectangle.
var ErrOutOfBounds = fmt.Errorf("gridview: out of bounds")

// Grid is a rectangular occupancy lattice, row-major, cell values in
// [0, 100] with 100+ meaning fully occupied. It is immutable once built.
type Grid struct {
	FrameID    string
	Resolution float64 // meters per pixel
	Width      int
	Height     int
	Data       []int16 // row-major, len == Width*Height
}

// NewGrid validates the data length and returns a Grid.
func NewGrid(frameID string, resolution float64, width, height int, data []int16) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gridview: non-positive dimensions %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("gridview: data length %d does not match %dx%d", len(data), width, height)
	}
	return &Grid{FrameID: frameID, Resolution: resolution, Width: width, Height: height, Data: data}, nil
}

// Empty reports whether the grid carries no cells at all.
func (g *Grid) Empty() bool {
	return g == nil || g.Width == 0 || g.Height == 0 || len(g.Data) == 0
}

// View is a read-only accessor over a Grid. It never mutates the
// underlying Grid and is safe to share across goroutines.
type View struct {
	grid *Grid
}

// NewView wraps a Grid for read-only access.
func NewView(g *Grid) *View {
	return &View{grid: g}
}

// Size returns the grid's width and height in pixels.
func (v *View) Size() (width, height int) {
	return v.grid.Width, v.grid.Height
}

// Resolution returns the meters-per-pixel scale of the underlying grid.
func (v *View) Resolution() float64 {
	return v.grid.Resolution
}

// InBounds reports whether (col, row) lies within the grid rectangle.
func (v *View) InBounds(col, row int) bool {
	return col >= 0 && col < v.grid.Width && row >= 0 && row < v.grid.Height
}

// Occ returns the occupancy value at the given pixel column/row.
// Row grows "up" in world frame, per §4.1; index is row*Width + col.
func (v *View) Occ(col, row int) (int16, error) {
	if !v.InBounds(col, row) {
		return 0, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, col, row, v.grid.Width, v.grid.Height)
	}
	return v.grid.Data[row*v.grid.Width+col], nil
}

// OccAt floors a continuous pixel coordinate to a grid index and looks it up.
func (v *View) OccAt(x, y float64) (int16, error) {
	return v.Occ(int(math.Floor(x)), int(math.Floor(y)))
}

// WorldToPixel converts a world-frame point to pixel space given an origin.
func (v *View) WorldToPixel(originX, originY, worldX, worldY float64) (px, py float64) {
	res := v.grid.Resolution
	return (worldX - originX) / res, (worldY - originY) / res
}

// PixelToWorld converts a pixel-space point back to world frame.
func (v *View) PixelToWorld(originX, originY, px, py float64) (worldX, worldY float64) {
	res := v.grid.Resolution
	return originX + px*res, originY + py*res
}

// Grid exposes the backing Grid for components that need direct field
// access (e.g. resolution-scaled thresholds in bezier/graphbuild).
func (v *View) Grid() *Grid {
	return v.grid
}
