package model

import (
	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/math"
)

// synthesizeNormals computes smooth vertex normals for documents without vn
// records and rebinds every corner to the normal of its position.
//
// Face normals are normalize(cross(p2-p1, p0-p1)) and every face touching a
// position counts once, regardless of area. A degenerate face contributes a
// zero vector, so a position surrounded only by degenerate faces keeps a zero
// normal.
//
// Vertex normals are accumulated per group: a position shared by several
// groups ends up with the normal computed from the last group that touches
// it. With acrossGroups set, faces from every group are summed instead.
// The returned table is indexed by position.
func synthesizeNormals(positions, normals []math.Vec3, groups [][]formats.Corner, acrossGroups bool) []math.Vec3 {
	// Face pass
	for _, corners := range groups {
		for j := 0; j+2 < len(corners); j += 3 {
			tri := corners[j : j+3]
			if tri[0].Normal != 0 && tri[1].Normal != 0 && tri[2].Normal != 0 {
				continue
			}

			p0 := positions[tri[0].Position]
			p1 := positions[tri[1].Position]
			p2 := positions[tri[2].Position]
			n := p2.Sub(p1).Cross(p0.Sub(p1)).Normalize()

			idx := len(normals)
			normals = append(normals, n)
			for k := range tri {
				if tri[k].Normal == 0 {
					tri[k].Normal = idx
				}
			}
		}
	}

	// Vertex pass
	vertexNormals := make([]math.Vec3, len(positions))
	acc := newNormalAccumulator(len(positions))
	for _, corners := range groups {
		acc.add(corners, normals)
		if !acrossGroups {
			acc.flush(vertexNormals)
		}
	}
	acc.flush(vertexNormals)

	for _, corners := range groups {
		for i := range corners {
			corners[i].Normal = corners[i].Position
		}
	}

	return vertexNormals
}

// normalAccumulator sums face normals per position and remembers which
// positions were touched so a flush only rewrites those.
type normalAccumulator struct {
	sums    []math.Vec3
	touched []int
	seen    []bool
}

func newNormalAccumulator(n int) *normalAccumulator {
	return &normalAccumulator{
		sums: make([]math.Vec3, n),
		seen: make([]bool, n),
	}
}

func (a *normalAccumulator) add(corners []formats.Corner, normals []math.Vec3) {
	for j := 0; j+2 < len(corners); j += 3 {
		for _, c := range corners[j : j+3] {
			if !a.seen[c.Position] {
				a.seen[c.Position] = true
				a.touched = append(a.touched, c.Position)
			}
			a.sums[c.Position] = a.sums[c.Position].Add(normals[c.Normal])
		}
	}
}

// flush writes the normalized sums of touched positions into out and resets.
func (a *normalAccumulator) flush(out []math.Vec3) {
	for _, p := range a.touched {
		out[p] = a.sums[p].Normalize()
		a.sums[p] = math.Vec3{}
		a.seen[p] = false
	}
	a.touched = a.touched[:0]
}
