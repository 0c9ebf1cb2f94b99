// Package config holds the conversion settings and loads them with viper.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/fxbricks/ldtrack/internal/catalog"
	"github.com/fxbricks/ldtrack/internal/reconcile"
	"github.com/fxbricks/ldtrack/internal/repair"
	"github.com/fxbricks/ldtrack/pkg/curves"
	"github.com/fxbricks/ldtrack/pkg/ldraw"
	"github.com/fxbricks/ldtrack/pkg/openscad"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "LDTRACK"

// Config holds everything a conversion run needs
type Config struct {
	// StraightsDir contains the straight track sources
	StraightsDir string `json:"straights_dir" yaml:"straights_dir" mapstructure:"straights_dir"`

	// CurvesDir contains the curved track sources
	CurvesDir string `json:"curves_dir" yaml:"curves_dir" mapstructure:"curves_dir"`

	// OutputDir receives the assemblies, with the parts under s/
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	Straights []string `json:"straights" yaml:"straights" mapstructure:"straights"`
	Curves    []string `json:"curves" yaml:"curves" mapstructure:"curves"`

	// Workers bounds the variants converted at the same time
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Ledger is the SQLite file conversions are recorded in; empty disables it
	Ledger string `json:"ledger" yaml:"ledger" mapstructure:"ledger"`

	// OpenSCAD is the binary .scad sources are rendered with
	OpenSCAD string `json:"openscad" yaml:"openscad" mapstructure:"openscad"`

	// Debounce delays re-conversion in watch mode
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`

	// SnapTolerance is the distance below which an edge endpoint snaps to a mesh vertex
	SnapTolerance float64 `json:"snap_tolerance" yaml:"snap_tolerance" mapstructure:"snap_tolerance"`

	Resolution curves.Resolution `json:"resolution" yaml:"resolution" mapstructure:"resolution"`
	Colours    ldraw.Colours     `json:"colours" yaml:"colours" mapstructure:"colours"`
	Assembly   catalog.Colours   `json:"assembly" yaml:"assembly" mapstructure:"assembly"`
	Meta       ldraw.Meta        `json:"meta" yaml:"meta" mapstructure:"meta"`
	Repair     repair.Config     `json:"repair" yaml:"repair" mapstructure:"repair"`
}

// Default returns the settings the track catalog is built with
func Default() Config {
	return Config{
		StraightsDir:  "straights",
		CurvesDir:     "curves",
		OutputDir:     "ldraw",
		Straights:     catalog.DefaultStraights(),
		Curves:        catalog.DefaultCurves(),
		Workers:       4,
		OpenSCAD:      openscad.DefaultBinary,
		Debounce:      500 * time.Millisecond,
		SnapTolerance: reconcile.DefaultSnapTolerance,
		Resolution:    curves.DefaultResolution(),
		Colours:       ldraw.DefaultColours(),
		Assembly:      catalog.DefaultColours(),
		Meta:          ldraw.DefaultMeta(),
		Repair:        repair.DefaultConfig(),
	}
}

// Validate rejects settings a run cannot start with
func (c Config) Validate() error {
	switch {
	case c.OutputDir == "":
		return fmt.Errorf("output_dir must be set")
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.SnapTolerance < 0:
		return fmt.Errorf("snap_tolerance must not be negative, got %g", c.SnapTolerance)
	case c.Resolution.Curve < 1 || c.Resolution.Circle < 3:
		return fmt.Errorf("resolution must be at least 1 segment per curve and 3 per circle")
	case c.Debounce < 0:
		return fmt.Errorf("debounce must not be negative")
	}
	if err := c.Repair.Validate(); err != nil {
		return fmt.Errorf("invalid repair config: %w", err)
	}
	return nil
}

// Catalog returns the catalog the config describes
func (c Config) Catalog() catalog.Catalog {
	return catalog.Catalog{
		StraightsDir: c.StraightsDir,
		CurvesDir:    c.CurvesDir,
		OutputDir:    c.OutputDir,
		Straights:    c.Straights,
		Curves:       c.Curves,
	}
}

// SetDefaults registers every key of Default with v, so that environment
// variables can override nested keys too
func SetDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to decode defaults: %w", err)
	}
	for key, value := range values {
		v.SetDefault(key, value)
	}
	return nil
}

// BindEnv makes v read LDTRACK_* variables, with nested keys joined by underscores
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes the settings held by v, falling back to Default for every key
// v does not set, and validates them
func Load(v *viper.Viper) (Config, error) {
	if err := SetDefaults(v); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write prints the config as YAML
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
