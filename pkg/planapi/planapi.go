// Package planapi holds the request/response types for topopland's HTTP
// surface: build a graph from an occupancy grid, then plan paths against
// it. It mirrors the teacher's main.go Point/RouteRequest/RouteResponse
// shape, generalized from lat/lon waypoints to pixel-space grid planning.
package planapi

// Point is a pixel-space coordinate on the wire, the JSON counterpart of
// graphbuild.PixelPoint.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridRequest is the body of POST /mapToGraph: a full occupancy grid plus
// the frame metadata GridView needs.
type GridRequest struct {
	FrameID    string  `json:"frameId"`
	Resolution float64 `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Data       []int16 `json:"data"`

	// LocalVertices are extra seed points fed to VoronoiBuilder ahead of
	// this build, the wire form of Coordinator.SetLocalVertices.
	LocalVertices []Point `json:"localVertices,omitempty"`
}

// GridResponse reports the outcome of a map_to_graph call.
type GridResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	NumNodes  int    `json:"numNodes"`
	NumEdges  int    `json:"numEdges"`
	Obstacles int    `json:"obstacles"`
}

// PlanRequest is the body of POST /plan.
type PlanRequest struct {
	Start Point `json:"start"`
	Goal  Point `json:"goal"`
	K     int   `json:"k,omitempty"` // number of homotopically distinct paths requested
}

// PlanResponse carries every smoothed path plan() found, each already
// homotopy-filtered and Bezier-smoothed.
type PlanResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Paths   [][]Point `json:"paths"`
}

// GraphLinesResponse exposes the current graph's live edges for
// visualization, the pixel-space counterpart of the teacher's
// getPRMGraphLines endpoint.
type GraphLinesResponse struct {
	Success  bool       `json:"success"`
	Lines    [][2]Point `json:"lines"`
	NumNodes int        `json:"numNodes"`
	NumEdges int        `json:"numEdges"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	HasGraph bool   `json:"hasGraph"`
	NumNodes int    `json:"numNodes"`
}
