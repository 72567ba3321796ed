package model

import (
	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/math"
)

// meshBuilder turns corners into output vertices and indices.
type meshBuilder struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2
	mode      WeldMode

	vertices []Vertex
	indices  []uint32
	seen     map[Vertex]uint32 // WeldFull only
	splits   int
}

func newMeshBuilder(positions, normals []math.Vec3, texCoords []math.Vec2, mode WeldMode) *meshBuilder {
	b := &meshBuilder{
		positions: positions,
		normals:   normals,
		texCoords: texCoords,
		mode:      mode,
	}

	switch mode {
	case WeldFull:
		b.seen = make(map[Vertex]uint32)
	case WeldPartial:
		// One slot per position; unused slots stay zero.
		b.vertices = make([]Vertex, len(positions))
	}
	return b
}

// add emits the index for one corner.
func (b *meshBuilder) add(c formats.Corner) {
	v := Vertex{
		Position: b.positions[c.Position],
		Normal:   b.normals[c.Normal],
		TexCoord: b.texCoords[c.TexCoord],
	}

	var idx uint32
	switch b.mode {
	case WeldFull:
		var ok bool
		if idx, ok = b.seen[v]; !ok {
			idx = b.appendVertex(v)
			b.seen[v] = idx
		}
	case WeldNone:
		idx = b.appendVertex(v)
	default:
		idx = b.addPartial(c.Position, v)
	}

	b.indices = append(b.indices, idx)
}

// addPartial compares v only against the vertex stored in slot p. A slot
// counts as written once its position equals v's, which is also true for an
// untouched slot when v sits at the origin.
func (b *meshBuilder) addPartial(p int, v Vertex) uint32 {
	slot := &b.vertices[p]
	if slot.Position == v.Position {
		if slot.Normal != v.Normal || slot.TexCoord != v.TexCoord {
			b.splits++
			return b.appendVertex(v)
		}
		return uint32(p)
	}

	*slot = v
	return uint32(p)
}

func (b *meshBuilder) appendVertex(v Vertex) uint32 {
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, v)
	return idx
}
