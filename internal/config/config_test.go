package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	c := Default()
	c.CollisionThreshold = 101
	c.OccupancyThreshold = 100
	require.Error(t, c.Validate())
}

func TestValidateRejectsBadPathCount(t *testing.T) {
	c := Default()
	c.NumPaths = 0
	require.Error(t, c.Validate())
}

func TestStride(t *testing.T) {
	c := Default()
	require.Equal(t, 1, c.Stride())
	c.PixelsToSkip = 3
	require.Equal(t, 4, c.Stride())
}

func TestLoadAppliesOverridesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "planner.yaml")
	require.NoError(t, os.WriteFile(p, []byte("num_paths: 5\nh_class_threshold: 0.3\n"), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.NumPaths)
	require.InDelta(t, 0.3, cfg.HClassThreshold, 1e-9)
	// untouched fields keep their defaults
	require.EqualValues(t, 100, cfg.OccupancyThreshold)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
