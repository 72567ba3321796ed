// Package model assembles parsed OBJ data into a renderer-ready mesh:
// deduplicated vertices, a triangle index list, material-bound groups and a
// material table.
package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/math"
	"github.com/Faultbox/objmesh/pkg/texture"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2
}

// Group is a named, contiguous index range [StartIndex, EndIndex) drawn with one material.
type Group struct {
	Name          string
	MaterialIndex int
	StartIndex    uint32
	EndIndex      uint32
}

// Count returns the number of indices in the group.
func (g Group) Count() uint32 {
	return g.EndIndex - g.StartIndex
}

// Material holds reflectance values and resolved texture references.
// A texture field is nil when its map is unset or failed to decode.
type Material struct {
	Name           string
	Ambient        math.Vec3
	Diffuse        math.Vec3
	Specular       math.Vec3
	Shininess      float32
	OpticalDensity float32
	Dissolve       float32
	Illum          int

	AmbientMap   string
	DiffuseMap   string
	SpecularMap  string
	ShininessMap string
	AlphaMap     string
	BumpMap      string

	AmbientTexture   *texture.Image
	DiffuseTexture   *texture.Image
	SpecularTexture  *texture.Image
	ShininessTexture *texture.Image
	AlphaTexture     *texture.Image
	BumpTexture      *texture.Image
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Mesh holds the complete model data. It is built once and not modified afterwards.
type Mesh struct {
	Path        string
	Vertices    []Vertex
	Indices     []uint32
	Groups      []Group
	Materials   []Material
	Bounds      Bounds
	Diagnostics formats.Diagnostics
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// WeldMode selects how corners are merged into output vertices.
type WeldMode int

const (
	// WeldPartial reuses slot p of the position table for the first attribute
	// combination seen at p and appends a new vertex whenever a corner at p
	// differs from it. Later differing corners are never matched against
	// earlier splits.
	WeldPartial WeldMode = iota
	// WeldFull merges every corner with an identical position, normal and texcoord.
	WeldFull
	// WeldNone emits one vertex per corner.
	WeldNone
)

// String returns the mode name used in configuration.
func (w WeldMode) String() string {
	switch w {
	case WeldPartial:
		return "partial"
	case WeldFull:
		return "full"
	case WeldNone:
		return "none"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// ParseWeldMode converts a configuration name to a WeldMode.
func ParseWeldMode(s string) (WeldMode, error) {
	switch s {
	case "", "partial":
		return WeldPartial, nil
	case "full":
		return WeldFull, nil
	case "none":
		return WeldNone, nil
	default:
		return WeldPartial, fmt.Errorf("unknown weld mode %q", s)
	}
}

// Options contains options for loading and building a mesh.
type Options struct {
	// Charset of the OBJ and MTL text. Empty means UTF-8.
	Charset string
	// Weld selects the vertex welding strategy.
	Weld WeldMode
	// SkipNormalSynthesis leaves normals at zero when the file has no vn records.
	SkipNormalSynthesis bool
	// SmoothAcrossGroups sums face normals from every group when synthesizing.
	// By default each group is smoothed on its own and a position shared by
	// several groups keeps the normal from the last of them.
	SmoothAcrossGroups bool
	// DisableFallbackLibrary stops the loader from trying <name>.mtl.
	DisableFallbackLibrary bool
	// DecodeImage binds textures to materials. Nil leaves every texture unbound.
	DecodeImage texture.DecodeFunc
	// Logger receives load progress. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
