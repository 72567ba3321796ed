package model

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/math"
)

// ExportOptions controls OBJ/MTL output.
type ExportOptions struct {
	// MaterialLibrary is written as an mtllib statement when set.
	MaterialLibrary string
	// Precision is the number of decimals for floats; negative writes the
	// shortest representation that round-trips.
	Precision int
	// Dir is the directory the MTL document is written to. Texture paths are
	// rewritten relative to it so the output library finds the same files.
	// Empty writes the paths as they were resolved at load time.
	Dir string
}

// mapPath returns the texture reference written for a resolved path.
func (o ExportOptions) mapPath(path string) string {
	if o.Dir == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	dir, err := filepath.Abs(o.Dir)
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// WriteOBJ writes the assembled mesh as an OBJ document. Every vertex
// becomes one v, vt and vn record, so each face corner is "i/i/i".
func WriteOBJ(w io.Writer, mesh *Mesh, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	f := floatFormatter(opts.Precision)

	if opts.MaterialLibrary != "" {
		fmt.Fprintf(bw, "mtllib %s\n", opts.MaterialLibrary)
	}

	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %s\n", f.vec3(v.Position))
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vt %s %s\n", f.float(v.TexCoord.X), f.float(v.TexCoord.Y))
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vn %s\n", f.vec3(v.Normal))
	}

	for _, g := range mesh.Groups {
		fmt.Fprintf(bw, "g %s\n", groupName(g.Name))
		if g.MaterialIndex < len(mesh.Materials) {
			fmt.Fprintf(bw, "usemtl %s\n", mesh.Materials[g.MaterialIndex].Name)
		}
		for i := g.StartIndex; i+2 < g.EndIndex; i += 3 {
			a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}

	return bw.Flush()
}

// WriteMTL writes the material table as an MTL document. Texture references
// are written relative to opts.Dir when it is set.
func WriteMTL(w io.Writer, materials []Material, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	f := floatFormatter(opts.Precision)

	for i, m := range materials {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Ka %s\n", f.vec3(m.Ambient))
		fmt.Fprintf(bw, "Kd %s\n", f.vec3(m.Diffuse))
		fmt.Fprintf(bw, "Ks %s\n", f.vec3(m.Specular))
		fmt.Fprintf(bw, "Ns %s\n", f.float(m.Shininess))
		fmt.Fprintf(bw, "Ni %s\n", f.float(m.OpticalDensity))
		fmt.Fprintf(bw, "d %s\n", f.float(m.Dissolve))
		fmt.Fprintf(bw, "illum %d\n", m.Illum)

		maps := []struct{ keyword, path string }{
			{"map_Ka", m.AmbientMap},
			{"map_Kd", m.DiffuseMap},
			{"map_Ks", m.SpecularMap},
			{"map_Ns", m.ShininessMap},
			{"map_d", m.AlphaMap},
			{"map_bump", m.BumpMap},
		}
		for _, mp := range maps {
			if mp.path != "" {
				fmt.Fprintf(bw, "%s %s\n", mp.keyword, opts.mapPath(mp.path))
			}
		}
	}

	return bw.Flush()
}

type floatFormatter int

func (p floatFormatter) float(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', int(p), 32)
}

func (p floatFormatter) vec3(v math.Vec3) string {
	return p.float(v.X) + " " + p.float(v.Y) + " " + p.float(v.Z)
}

// groupName returns the name written for a group, falling back to the default.
func groupName(name string) string {
	if name == "" {
		return formats.DefaultGroupName
	}
	return name
}
