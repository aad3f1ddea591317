// Package config holds the immutable planner configuration (§6) and the
// defaults the teacher applied by hand in its HTTP handlers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable named in spec.md §6. All fields are meant
// to be set once at construction and never mutated afterwards.
type Config struct {
	NumPaths                  int     `yaml:"num_paths"`
	OccupancyThreshold        int16   `yaml:"occupancy_threshold"`
	CollisionThreshold        int16   `yaml:"collision_threshold"`
	PixelsToSkip              int     `yaml:"pixels_to_skip"`
	LineCheckResolution       float64 `yaml:"line_check_resolution"`
	OpenCVScale               float64 `yaml:"open_cv_scale"`
	HClassThreshold           float64 `yaml:"h_class_threshold"`
	MinNodeSepSq              float64 `yaml:"min_node_sep_sq"`
	ExtraPointDistance        float64 `yaml:"extra_point_distance"`
	NodeConnectionThresholdSq float64 `yaml:"node_connection_threshold_pix2"`
	BezierMaxN                int     `yaml:"bezier_max_n"`
	VertexHashResolution      float64 `yaml:"vertex_hash_resolution"`

	// FaithfulStitchingBug reproduces the documented §9 stitching distance
	// bug (dist computed with (node_j.y - node_j.y)^2) when true. Default
	// false ships the corrected distance, per the §9 REDESIGN FLAG.
	FaithfulStitchingBug bool `yaml:"faithful_stitching_bug"`
}

// Default returns the configuration with every default from spec.md §6.
func Default() Config {
	return Config{
		NumPaths:                  2,
		OccupancyThreshold:        100,
		CollisionThreshold:        85,
		PixelsToSkip:              0,
		LineCheckResolution:       0.1,
		OpenCVScale:               0.25,
		HClassThreshold:           0.2,
		MinNodeSepSq:              1.0,
		ExtraPointDistance:        1.0,
		NodeConnectionThresholdSq: 1,
		BezierMaxN:                10,
		VertexHashResolution:      0.1,
		FaithfulStitchingBug:      false,
	}
}

// Validate checks the invariants §6 relies on: τ2 <= τ1, a non-negative
// pixel skip (so a positive stride), a positive line-check resolution,
// open_cv_scale in (0, 1], bezier_max_n >= 2 and a path count of at least
// one. vertex_hash_resolution is not checked.
func (c Config) Validate() error {
	if c.NumPaths < 1 {
		return fmt.Errorf("config: num_paths must be >= 1, got %d", c.NumPaths)
	}
	if c.CollisionThreshold > c.OccupancyThreshold {
		return fmt.Errorf("config: collision_threshold (%d) must be <= occupancy_threshold (%d)", c.CollisionThreshold, c.OccupancyThreshold)
	}
	if c.PixelsToSkip < 0 {
		return fmt.Errorf("config: pixels_to_skip must be >= 0, got %d", c.PixelsToSkip)
	}
	if c.LineCheckResolution <= 0 {
		return fmt.Errorf("config: line_check_resolution must be > 0, got %f", c.LineCheckResolution)
	}
	if c.OpenCVScale <= 0 || c.OpenCVScale > 1 {
		return fmt.Errorf("config: open_cv_scale must be in (0, 1], got %f", c.OpenCVScale)
	}
	if c.BezierMaxN < 2 {
		return fmt.Errorf("config: bezier_max_n must be >= 2, got %d", c.BezierMaxN)
	}
	return nil
}

// Stride returns the Voronoi sampling stride, s+1 in §4.2's terms.
func (c Config) Stride() int {
	return c.PixelsToSkip + 1
}

// Load reads a YAML config file over the defaults, so any field the file
// does not set keeps its default (a field the file sets explicitly to
// zero stays zero), the way the teacher's buildPRMGraphHandler applies
// defaults by hand to an unmarshaled request body.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
