package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/texture"
)

// buildMaterials converts the parsed library into output materials, resolving
// relative texture paths against the declaring library's directory and
// decoding each referenced texture through opts.DecodeImage.
func buildMaterials(lib *formats.MaterialLibrary, opts Options, mesh *Mesh, log *zap.Logger) []Material {
	materials := make([]Material, 0, lib.Len())

	for _, src := range lib.Materials {
		m := Material{
			Name:           src.Name,
			Ambient:        src.Ambient,
			Diffuse:        src.Diffuse,
			Specular:       src.Specular,
			Shininess:      src.Shininess,
			OpticalDensity: src.OpticalDensity,
			Dissolve:       src.Dissolve,
			Illum:          src.Illum,
		}

		maps := []struct {
			ref  string
			path *string
			img  **texture.Image
		}{
			{src.AmbientMap, &m.AmbientMap, &m.AmbientTexture},
			{src.DiffuseMap, &m.DiffuseMap, &m.DiffuseTexture},
			{src.SpecularMap, &m.SpecularMap, &m.SpecularTexture},
			{src.ShininessMap, &m.ShininessMap, &m.ShininessTexture},
			{src.AlphaMap, &m.AlphaMap, &m.AlphaTexture},
			{src.BumpMap, &m.BumpMap, &m.BumpTexture},
		}

		for _, tm := range maps {
			if tm.ref == "" {
				continue
			}
			*tm.path = formats.ResolvePath(src.Dir, tm.ref)
			if opts.DecodeImage == nil {
				continue
			}

			img, err := opts.DecodeImage(*tm.path)
			if err != nil {
				log.Warn("texture unavailable",
					zap.String("material", src.Name),
					zap.String("path", *tm.path),
					zap.Error(err))
				mesh.Diagnostics = append(mesh.Diagnostics, formats.Diagnostic{
					File:    *tm.path,
					Keyword: src.Name,
					Err:     fmt.Errorf("%w: %w", ErrMissingTexture, err),
				})
				continue
			}
			*tm.img = img
			log.Debug("bound texture",
				zap.String("material", src.Name),
				zap.String("path", *tm.path),
				zap.Int("width", img.Width),
				zap.Int("height", img.Height),
				zap.Int("channels", img.Channels))
		}

		materials = append(materials, m)
	}

	return materials
}
