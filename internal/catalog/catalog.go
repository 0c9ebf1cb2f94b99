// Package catalog names the track items, their part variants and the files
// each variant reads and writes.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
)

// Profile is one of the three parts every track item is made of
type Profile string

const (
	Track     Profile = "track"
	InnerRail Profile = "inner"
	OuterRail Profile = "outer"
)

// Profiles returns the profiles in conversion order
func Profiles() []Profile {
	return []Profile{Track, InnerRail, OuterRail}
}

// Suffix returns the file name suffix of the profile
func (p Profile) Suffix() string {
	switch p {
	case InnerRail:
		return "InnerRail"
	case OuterRail:
		return "OuterRail"
	}
	return ""
}

// Colours are the colour codes parts are placed with in an assembly
type Colours struct {
	Track int `json:"track" yaml:"track" mapstructure:"track"`
	Rail  int `json:"rail" yaml:"rail" mapstructure:"rail"`
}

// DefaultColours returns dark bluish grey track and chrome silver rails
func DefaultColours() Colours {
	return Colours{Track: 72, Rail: 383}
}

// For returns the colour of a profile
func (c Colours) For(p Profile) int {
	if p == Track {
		return c.Track
	}
	return c.Rail
}

// Item is one catalog entry, e.g. S8 or R56
type Item struct {
	Name string
	Dir  string
}

// Variant is one part of an item with its input and output files
type Variant struct {
	Item       string
	Profile    Profile
	MeshPath   string
	CurvePath  string
	OutputPath string
}

// Base returns the file base name, e.g. R56InnerRail
func (v Variant) Base() string {
	return v.Item + v.Profile.Suffix()
}

func (v Variant) String() string {
	return v.Base()
}

// SubFile returns the reference an assembly uses for the variant's part
func (v Variant) SubFile() string {
	return "s/" + v.Base() + ".dat"
}

// Inputs returns the files the variant is converted from
func (v Variant) Inputs() []string {
	return []string{v.MeshPath, v.CurvePath}
}

// Catalog lists the items and where their files live
type Catalog struct {
	StraightsDir string
	CurvesDir    string
	OutputDir    string
	Straights    []string
	Curves       []string
}

// DefaultStraights returns the straight track lengths
func DefaultStraights() []string {
	return []string{"S1.6", "S3.2", "S8", "S16", "S32"}
}

// DefaultCurves returns the curve radii
func DefaultCurves() []string {
	return []string{"R56", "R64P", "R72", "R88", "R104", "R120"}
}

// Items returns every straight followed by every curve
func (c Catalog) Items() []Item {
	items := make([]Item, 0, len(c.Straights)+len(c.Curves))
	for _, name := range c.Straights {
		items = append(items, Item{Name: name, Dir: c.StraightsDir})
	}
	for _, name := range c.Curves {
		items = append(items, Item{Name: name, Dir: c.CurvesDir})
	}
	return items
}

// Select returns the named items in the given order, or all items when names is empty
func (c Catalog) Select(names []string) ([]Item, error) {
	all := c.Items()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Item, len(all))
	for _, item := range all {
		byName[item.Name] = item
	}
	items := make([]Item, 0, len(names))
	for _, name := range names {
		item, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown catalog item %q", name)
		}
		items = append(items, item)
	}
	return items, nil
}

// Variants returns the three parts of an item
func (c Catalog) Variants(item Item) []Variant {
	variants := make([]Variant, 0, 3)
	for _, p := range Profiles() {
		base := item.Name + p.Suffix()
		variants = append(variants, Variant{
			Item:       item.Name,
			Profile:    p,
			MeshPath:   MeshSource(item.Dir, base),
			CurvePath:  filepath.Join(item.Dir, base+".yaml"),
			OutputPath: filepath.Join(c.OutputDir, "s", base+".dat"),
		})
	}
	return variants
}

// AssemblyPath returns the file that combines the parts of an item
func (c Catalog) AssemblyPath(item Item) string {
	return filepath.Join(c.OutputDir, "FxTrack"+item.Name+".dat")
}

// MeshSource returns <base>.stl, or <base>.scad when only the OpenSCAD source exists
func MeshSource(dir, base string) string {
	stlPath := filepath.Join(dir, base+".stl")
	if _, err := os.Stat(stlPath); err == nil {
		return stlPath
	}
	scadPath := filepath.Join(dir, base+".scad")
	if _, err := os.Stat(scadPath); err == nil {
		return scadPath
	}
	return stlPath
}
