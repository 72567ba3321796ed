package model

import (
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/formats"
)

// Load reads an OBJ file, its material libraries and textures, and assembles
// the mesh. Only failing to open or read the OBJ file itself is an error;
// every other problem is absorbed and listed in Mesh.Diagnostics.
func Load(path string, opts Options) (*Mesh, error) {
	log := opts.logger().With(zap.String("file", path))
	log.Debug("loading OBJ")

	obj, err := formats.ParseOBJFile(path, formats.OBJOptions{
		Charset:                opts.Charset,
		DisableFallbackLibrary: opts.DisableFallbackLibrary,
	})
	if err != nil {
		log.Error("failed to load OBJ", zap.Error(err))
		return nil, err
	}
	log.Debug("parsed OBJ",
		zap.Int("positions", len(obj.Positions)-1),
		zap.Int("normals", len(obj.Normals)-1),
		zap.Int("texcoords", len(obj.TexCoords)-1),
		zap.Int("corners", obj.CornerCount()))
	for _, lib := range obj.Libraries {
		log.Debug("loaded material library", zap.String("library", lib))
	}

	opts.Logger = log
	mesh := BuildMesh(obj, opts)

	if err := mesh.Diagnostics.Err(); err != nil {
		log.Warn("absorbed problems while loading",
			zap.Int("count", len(mesh.Diagnostics)),
			zap.Error(err))
	}

	log.Info("loaded OBJ",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("groups", len(mesh.Groups)),
		zap.Int("materials", len(mesh.Materials)),
		zap.Int("diagnostics", len(mesh.Diagnostics)))
	return mesh, nil
}

// Read parses an OBJ document from r. Relative mtllib names resolve against dir.
func Read(r io.Reader, dir string, opts Options) (*Mesh, error) {
	obj, err := formats.ParseOBJ(r, formats.OBJOptions{
		Dir:     dir,
		Charset: opts.Charset,
	})
	if err != nil {
		return nil, err
	}
	return BuildMesh(obj, opts), nil
}
