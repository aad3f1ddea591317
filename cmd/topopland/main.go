// Command topopland is a demo HTTP service exposing the planner over a
// JSON API: POST a grid to build its graph, then POST start/goal pairs to
// plan against it. Mirrors the teacher's main.go endpoint shape
// (build-then-route, CORS-enabled, emoji section banners) routed through
// structured logging instead of bare fmt/log.
package main

import (
	"encoding/json"
	"flag"
	"net/http"

	"github.com/benedrone/topoplan/internal/config"
	"github.com/benedrone/topoplan/internal/graphbuild"
	"github.com/benedrone/topoplan/internal/gridview"
	"github.com/benedrone/topoplan/internal/planner"
	"github.com/benedrone/topoplan/internal/telemetry"
	"github.com/benedrone/topoplan/pkg/planapi"
)

var coordinator *planner.Coordinator

// corsMiddleware adds CORS headers to allow frontend requests, unchanged
// from the teacher's main.go.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func mapToGraphHandler(w http.ResponseWriter, r *http.Request) {
	telemetry.Banner("🗺️  map_to_graph request received")

	if r.Method != http.MethodPost {
		telemetry.Logger.Warn().Str("method", r.Method).Msg("method not allowed")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planapi.GridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		telemetry.Logger.Warn().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	grid, err := gridview.NewGrid(req.FrameID, req.Resolution, req.Width, req.Height, req.Data)
	if err != nil {
		telemetry.Logger.Warn().Err(err).Msg("invalid grid")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(planapi.GridResponse{Success: false, Message: err.Error()})
		return
	}

	if len(req.LocalVertices) > 0 {
		vertices := make([]graphbuild.PixelPoint, len(req.LocalVertices))
		for i, p := range req.LocalVertices {
			vertices[i] = graphbuild.PixelPoint{X: p.X, Y: p.Y}
		}
		coordinator.SetLocalVertices(vertices)
	}

	ok := coordinator.MapToGraph(grid)
	resp := planapi.GridResponse{Success: ok}
	if !ok {
		resp.Message = "grid rejected: empty grid, or a plan is currently in progress"
	} else {
		resp.NumNodes = len(coordinator.Adjacency())
		resp.NumEdges = len(coordinator.Edges())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func planHandler(w http.ResponseWriter, r *http.Request) {
	telemetry.Banner("📍 plan request received")

	if r.Method != http.MethodPost {
		telemetry.Logger.Warn().Str("method", r.Method).Msg("method not allowed")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planapi.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		telemetry.Logger.Warn().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.K == 0 {
		req.K = 1
	}

	start := graphbuild.PixelPoint{X: req.Start.X, Y: req.Start.Y}
	goal := graphbuild.PixelPoint{X: req.Goal.X, Y: req.Goal.Y}
	paths := coordinator.Plan(start, goal, req.K)

	resp := planapi.PlanResponse{Success: len(paths) > 0}
	if !resp.Success {
		resp.Message = "no path found"
		telemetry.Logger.Warn().Msg("plan: no path found")
	} else {
		resp.Paths = make([][]planapi.Point, len(paths))
		for i, p := range paths {
			wire := make([]planapi.Point, len(p))
			for j, pt := range p {
				wire[j] = planapi.Point{X: pt.X, Y: pt.Y}
			}
			resp.Paths[i] = wire
		}
		telemetry.Logger.Info().Int("paths", len(paths)).Msg("plan: path found")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func graphLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	edges := coordinator.Edges()
	lines := make([][2]planapi.Point, len(edges))
	for i, e := range edges {
		lines[i] = [2]planapi.Point{{X: e.A.X, Y: e.A.Y}, {X: e.B.X, Y: e.B.Y}}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(planapi.GraphLinesResponse{
		Success:  true,
		Lines:    lines,
		NumNodes: len(coordinator.Adjacency()),
		NumEdges: len(lines),
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	adjacency := coordinator.Adjacency()
	resp := planapi.HealthResponse{
		Status:   "waiting for graph",
		HasGraph: adjacency != nil,
		NumNodes: len(adjacency),
	}
	if resp.HasGraph {
		resp.Status = "ready"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional, defaults applied otherwise)")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	enableTimings := flag.Bool("timings", false, "enable per-phase plan timing instrumentation")
	flag.Parse()

	telemetry.Banner("🚀 topopland planner service")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			telemetry.Logger.Fatal().Err(err).Msg("failed to load config")
		}
		cfg = loaded
	}

	coordinator = planner.New(cfg, *enableTimings)

	http.HandleFunc("/mapToGraph", corsMiddleware(mapToGraphHandler))
	http.HandleFunc("/plan", corsMiddleware(planHandler))
	http.HandleFunc("/graphLines", corsMiddleware(graphLinesHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))

	telemetry.Logger.Info().Str("addr", *addr).Msg("server starting")
	telemetry.Logger.Info().Msg("POST /mapToGraph  - build the Voronoi graph from an occupancy grid")
	telemetry.Logger.Info().Msg("POST /plan        - plan homotopy-distinct smoothed paths")
	telemetry.Logger.Info().Msg("GET  /graphLines  - current graph edges, for visualization")
	telemetry.Logger.Info().Msg("GET  /health      - service status")

	if err := http.ListenAndServe(*addr, nil); err != nil {
		telemetry.Logger.Fatal().Err(err).Msg("server exited")
	}
}
