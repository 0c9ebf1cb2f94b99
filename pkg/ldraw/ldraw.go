// Package ldraw writes meshes and edge lines as LDraw part files.
package ldraw

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fxbricks/ldtrack/pkg/geometry"
	"github.com/fxbricks/ldtrack/pkg/mesh"
)

// LDraw colour codes
const (
	MainColour = 16
	EdgeColour = 24
)

// Header is the meta command block at the top of a part file
type Header struct {
	File       string
	Title      string
	Name       string
	Author     string
	License    string
	Copyright  string
	Unofficial bool
	BFC        bool
}

// Meta holds the authorship lines shared by every generated file
type Meta struct {
	TitlePrefix string `json:"title_prefix" yaml:"title_prefix" mapstructure:"title_prefix"`
	Author      string `json:"author" yaml:"author" mapstructure:"author"`
	License     string `json:"license" yaml:"license" mapstructure:"license"`
	Copyright   string `json:"copyright" yaml:"copyright" mapstructure:"copyright"`
}

// DefaultMeta returns the Fx Bricks authorship lines
func DefaultMeta() Meta {
	return Meta{
		TitlePrefix: "FxTrack",
		Author:      "Fx Bricks",
		License:     "Redistributable under CCAL version 4.0 BY-NC-SA",
		Copyright:   "Copyright 2020 Fx Bricks Inc.",
	}
}

// Header returns the header of the file written to path
func (m Meta) Header(path string) Header {
	base := filepath.Base(path)
	title := base
	if m.TitlePrefix != "" {
		title = m.TitlePrefix + " " + base
	}
	return Header{
		File:       base,
		Title:      title,
		Name:       base,
		Author:     m.Author,
		License:    m.License,
		Copyright:  m.Copyright,
		Unofficial: true,
		BFC:        true,
	}
}

func (h Header) String() string {
	var b strings.Builder
	if h.File != "" {
		fmt.Fprintf(&b, "0 FILE %s\n", h.File)
	}
	fmt.Fprintf(&b, "0 %s\n", h.Title)
	fmt.Fprintf(&b, "0 Name: %s\n", h.Name)
	fmt.Fprintf(&b, "0 Author: %s\n", h.Author)
	if h.Unofficial {
		b.WriteString("0 !LDRAW_ORG Unofficial_Part\n")
	}
	if h.License != "" {
		fmt.Fprintf(&b, "0 !LICENSE %s\n", h.License)
	}
	if h.Copyright != "" {
		fmt.Fprintf(&b, "0 // %s\n", h.Copyright)
	}
	if h.BFC {
		b.WriteString("0 BFC CERTIFY CCW\n")
	}
	return b.String()
}

// FormatNumber prints a coordinate with at most four decimals and no trailing zeros
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func formatPoints(points ...geometry.Vector3) string {
	parts := make([]string, 0, len(points)*3)
	for _, p := range points {
		parts = append(parts, FormatNumber(p.X), FormatNumber(p.Y), FormatNumber(p.Z))
	}
	return strings.Join(parts, " ")
}

// TriangleLine returns a type 3 line
func TriangleLine(colour int, t geometry.Triangle) string {
	return fmt.Sprintf("3 %d %s", colour, formatPoints(t.V1, t.V2, t.V3))
}

// EdgeLine returns a type 2 line
func EdgeLine(colour int, s geometry.Segment) string {
	return fmt.Sprintf("2 %d %s", colour, formatPoints(s.Start, s.End))
}

// PartRef returns a type 1 line placing file at the origin without rotation
func PartRef(colour int, file string) string {
	return fmt.Sprintf("1 %d 0 0 0 1 0 0 0 1 0 0 0 1 %s", colour, file)
}

// Colours selects the colour codes of a part file
type Colours struct {
	Mesh int `json:"mesh" yaml:"mesh" mapstructure:"mesh"`
	Edge int `json:"edge" yaml:"edge" mapstructure:"edge"`
}

// DefaultColours returns the main colour for faces and the edge colour for lines
func DefaultColours() Colours {
	return Colours{Mesh: MainColour, Edge: EdgeColour}
}

// WritePart writes the header, one triangle per face, one line per edge and the NOFILE terminator
func WritePart(w io.Writer, h Header, m *mesh.Mesh, edges []geometry.Segment, colours Colours) error {
	if m == nil || m.IsEmpty() {
		return mesh.ErrEmpty
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(h.String())
	for i := range m.Faces {
		bw.WriteString(TriangleLine(colours.Mesh, m.Triangle(i)))
		bw.WriteByte('\n')
	}
	for _, e := range edges {
		bw.WriteString(EdgeLine(colours.Edge, e))
		bw.WriteByte('\n')
	}
	bw.WriteString("0 NOFILE\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write part: %w", err)
	}
	return nil
}

// Ref is a sub-file placed in an assembly
type Ref struct {
	Colour int
	File   string
}

// WriteAssembly writes a file that places every ref at the origin
func WriteAssembly(w io.Writer, h Header, refs []Ref) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(h.String())
	for _, r := range refs {
		bw.WriteString(PartRef(r.Colour, r.File))
		bw.WriteByte('\n')
	}
	bw.WriteString("0 NOFILE\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write assembly: %w", err)
	}
	return nil
}
