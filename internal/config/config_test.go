package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.2, cfg.SnapTolerance)
	assert.Equal(t, 100, cfg.Repair.DegenerateMaxIterations)
	assert.Equal(t, 0.05, cfg.Repair.MinEdgeLength)
	assert.Equal(t, 179.5, cfg.Repair.ObtuseMaxAngle)
	assert.Equal(t, 10, cfg.Resolution.Curve)
	assert.Equal(t, 24, cfg.Resolution.Circle)
	assert.Equal(t, 16, cfg.Colours.Mesh)
	assert.Equal(t, 24, cfg.Colours.Edge)
	assert.Equal(t, 72, cfg.Assembly.Track)
	assert.Equal(t, 383, cfg.Assembly.Rail)
	assert.Equal(t, "Fx Bricks", cfg.Meta.Author)
	assert.Len(t, cfg.Catalog().Items(), 11)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no output", func(c *Config) { c.OutputDir = "" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative snap", func(c *Config) { c.SnapTolerance = -1 }},
		{"coarse circle", func(c *Config) { c.Resolution.Circle = 2 }},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"bad repair", func(c *Config) { c.Repair.CollapseMaxPasses = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ldtrack.yaml")
	data := []byte(`output_dir: out
workers: 2
snap_tolerance: 0.1
debounce: 2s
straights: [S8]
repair:
  min_edge_length: 0.01
meta:
  author: Someone
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 0.1, cfg.SnapTolerance)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, []string{"S8"}, cfg.Straights)
	assert.Equal(t, 0.01, cfg.Repair.MinEdgeLength)
	assert.Equal(t, "Someone", cfg.Meta.Author)

	// untouched keys keep their defaults
	assert.Equal(t, 100, cfg.Repair.DegenerateMaxIterations)
	assert.Equal(t, "FxTrack", cfg.Meta.TitlePrefix)
	assert.Equal(t, Default().Curves, cfg.Curves)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LDTRACK_WORKERS", "8")
	t.Setenv("LDTRACK_REPAIR_OBTUSE_MAX_AREA", "2.5")

	v := viper.New()
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2.5, cfg.Repair.ObtuseMaxArea)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("workers", 0)

	_, err := Load(v)
	assert.Error(t, err)
}

func TestWriteRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	assert.Contains(t, buf.String(), "snap_tolerance: 0.2")
	assert.Contains(t, buf.String(), "min_edge_length: 0.05")

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(&buf))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
