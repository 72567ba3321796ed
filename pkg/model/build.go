package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/math"
)

// Conditions absorbed while assembling a mesh.
var (
	ErrUnresolvedMaterial = errors.New("unresolved material reference")
	ErrMissingTexture     = errors.New("texture could not be loaded")
)

// BuildMesh assembles a parsed OBJ document into a Mesh. obj is not modified.
// Normals are synthesized when the document has none, corners are welded
// according to opts.Weld, and groups without triangles are dropped.
func BuildMesh(obj *formats.OBJ, opts Options) *Mesh {
	log := opts.logger()

	mesh := &Mesh{
		Path:        obj.Path,
		Diagnostics: append(formats.Diagnostics(nil), obj.Diagnostics...),
	}

	// Work on copies so the parse result stays untouched.
	groups := make([][]formats.Corner, len(obj.Groups))
	for i, g := range obj.Groups {
		n := len(g.Corners) / 3 * 3
		groups[i] = append([]formats.Corner(nil), g.Corners[:n]...)
	}

	normals := obj.Normals
	if !obj.HasNormals() && !opts.SkipNormalSynthesis {
		normals = synthesizeNormals(obj.Positions, append([]math.Vec3(nil), obj.Normals...), groups, opts.SmoothAcrossGroups)
		log.Debug("synthesized normals", zap.Int("count", len(normals)))
	}

	b := newMeshBuilder(obj.Positions, normals, obj.TexCoords, opts.Weld)
	for i, corners := range groups {
		if len(corners) == 0 {
			continue
		}

		g := obj.Groups[i]
		group := Group{
			Name:          g.Name,
			MaterialIndex: mesh.resolveMaterial(obj, g, log),
			StartIndex:    uint32(len(b.indices)),
		}
		for _, c := range corners {
			b.add(c)
		}
		group.EndIndex = uint32(len(b.indices))
		mesh.Groups = append(mesh.Groups, group)
	}

	mesh.Vertices = b.vertices
	mesh.Indices = b.indices
	mesh.Bounds = computeBounds(mesh.Vertices, mesh.Indices)
	mesh.Materials = buildMaterials(obj.Library, opts, mesh, log)

	log.Debug("assembled mesh",
		zap.String("weld", opts.Weld.String()),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("splits", b.splits),
		zap.Int("indices", len(mesh.Indices)),
		zap.Int("groups", len(mesh.Groups)))

	return mesh
}

// resolveMaterial returns the table index for a group's material, falling
// back to the default material at index 0.
func (m *Mesh) resolveMaterial(obj *formats.OBJ, g formats.Group, log *zap.Logger) int {
	if idx, ok := obj.Library.Index(g.Material); ok {
		return idx
	}
	if g.Material != "" {
		log.Warn("unresolved material", zap.String("group", g.Name), zap.String("material", g.Material))
		m.Diagnostics = append(m.Diagnostics, formats.Diagnostic{
			File:    obj.Path,
			Keyword: "usemtl",
			Err:     fmt.Errorf("%w: %q in group %q", ErrUnresolvedMaterial, g.Material, g.Name),
		})
	}
	return 0
}

// computeBounds returns the box around every indexed vertex, or zero bounds
// for an empty mesh.
func computeBounds(vertices []Vertex, indices []uint32) Bounds {
	if len(indices) == 0 {
		return Bounds{}
	}

	first := vertices[indices[0]].Position
	bounds := Bounds{Min: first, Max: first}
	for _, i := range indices[1:] {
		p := vertices[i].Position
		bounds.Min = bounds.Min.Min(p)
		bounds.Max = bounds.Max.Max(p)
	}
	return bounds
}
