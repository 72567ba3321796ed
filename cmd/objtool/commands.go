package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/pkg/encoding"
	"github.com/Faultbox/objmesh/pkg/formats"
	"github.com/Faultbox/objmesh/pkg/model"
	"github.com/Faultbox/objmesh/pkg/texture"
)

var (
	errUsage       = errors.New("usage")
	errDiagnostics = errors.New("diagnostics reported")
)

type command func(a *app, args []string) error

var commands = map[string]command{
	"info":      cmdInfo,
	"groups":    cmdGroups,
	"materials": cmdMaterials,
	"check":     cmdCheck,
	"convert":   cmdConvert,
	"config":    cmdConfig,
}

// stdinPath names standard input in place of an OBJ file.
const stdinPath = "-"

// app carries what every command needs to load meshes.
type app struct {
	cfg   *config.Config
	in    io.Reader // read when a path is "-"
	out   io.Writer
	log   *zap.Logger
	cache *texture.Cache // nil unless textures are shared
}

func newApp(cfg *config.Config, out io.Writer, log *zap.Logger) *app {
	a := &app{cfg: cfg, in: os.Stdin, out: out, log: log}
	if cfg.Load.LoadTextures && cfg.Load.ShareTextures {
		a.cache = texture.NewCache()
	}
	return a
}

func (a *app) options() (model.Options, error) {
	weld, err := model.ParseWeldMode(a.cfg.Load.Weld)
	if err != nil {
		return model.Options{}, err
	}

	opts := model.Options{
		Charset:                a.cfg.Load.Charset,
		Weld:                   weld,
		SkipNormalSynthesis:    !a.cfg.Load.SynthesizeNormals,
		SmoothAcrossGroups:     a.cfg.Load.SmoothAcrossGroups,
		DisableFallbackLibrary: !a.cfg.Load.FallbackLibrary,
		Logger:                 a.log.Named("load"),
	}

	if a.cfg.Load.LoadTextures {
		texOpts := texture.DefaultOptions()
		texOpts.FlipVertical = a.cfg.Load.FlipTextures
		decode := texture.NewDecoder(texOpts)
		if a.cache != nil {
			decode = a.cache.Wrap(decode)
		}
		opts.DecodeImage = decode
	}
	return opts, nil
}

func (a *app) load(path string) (*model.Mesh, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	if path == stdinPath {
		// Relative mtllib names resolve against the working directory.
		return model.Read(a.in, ".", opts)
	}
	return model.Load(path, opts)
}

func usage(line string) error {
	return fmt.Errorf("%w: objtool %s", errUsage, line)
}

func cmdInfo(a *app, args []string) error {
	if len(args) < 1 {
		return usage("info <file.obj>...")
	}

	for i, path := range args {
		mesh, err := a.load(path)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(a.out)
		}

		b := mesh.Bounds
		size, center := b.Size(), b.Center()
		fmt.Fprintf(a.out, "File:        %s\n", path)
		fmt.Fprintf(a.out, "Vertices:    %d\n", len(mesh.Vertices))
		fmt.Fprintf(a.out, "Triangles:   %d\n", mesh.TriangleCount())
		fmt.Fprintf(a.out, "Groups:      %d\n", len(mesh.Groups))
		fmt.Fprintf(a.out, "Materials:   %d\n", len(mesh.Materials))
		fmt.Fprintf(a.out, "Bounds:      (%g, %g, %g) - (%g, %g, %g)\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
		fmt.Fprintf(a.out, "Size:        %g x %g x %g\n", size.X, size.Y, size.Z)
		fmt.Fprintf(a.out, "Center:      (%g, %g, %g)\n", center.X, center.Y, center.Z)
		fmt.Fprintf(a.out, "Diagnostics: %d\n", len(mesh.Diagnostics))
	}

	if a.cache != nil {
		hits, misses := a.cache.Stats()
		a.log.Debug("texture cache", zap.Int("entries", a.cache.Len()), zap.Int("hits", hits), zap.Int("misses", misses))
	}
	return nil
}

func cmdGroups(a *app, args []string) error {
	if len(args) != 1 {
		return usage("groups <file.obj>")
	}

	mesh, err := a.load(args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tMATERIAL\tSTART\tEND\tTRIANGLES")
	for _, g := range mesh.Groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
			g.Name, mesh.Materials[g.MaterialIndex].Name, g.StartIndex, g.EndIndex, g.Count()/3)
	}
	return tw.Flush()
}

func cmdMaterials(a *app, args []string) error {
	if len(args) != 1 {
		return usage("materials <file.obj>")
	}

	mesh, err := a.load(args[0])
	if err != nil {
		return err
	}

	for i, m := range mesh.Materials {
		fmt.Fprintf(a.out, "[%d] %s\n", i, m.Name)
		fmt.Fprintf(a.out, "    Kd %g %g %g  Ns %g  d %g  illum %d\n",
			m.Diffuse.X, m.Diffuse.Y, m.Diffuse.Z, m.Shininess, m.Dissolve, m.Illum)

		maps := []struct {
			keyword string
			path    string
			img     *texture.Image
		}{
			{"map_Ka", m.AmbientMap, m.AmbientTexture},
			{"map_Kd", m.DiffuseMap, m.DiffuseTexture},
			{"map_Ks", m.SpecularMap, m.SpecularTexture},
			{"map_Ns", m.ShininessMap, m.ShininessTexture},
			{"map_d", m.AlphaMap, m.AlphaTexture},
			{"bump", m.BumpMap, m.BumpTexture},
		}
		for _, mp := range maps {
			if mp.path == "" {
				continue
			}
			status := "not loaded"
			if mp.img != nil {
				status = fmt.Sprintf("%dx%d, %d channels", mp.img.Width, mp.img.Height, mp.img.Channels)
			}
			fmt.Fprintf(a.out, "    %-7s %s (%s)\n", mp.keyword, mp.path, status)
		}
	}
	return nil
}

func cmdCheck(a *app, args []string) error {
	if len(args) < 1 {
		return usage("check <file.obj|file.mtl>...")
	}

	total := 0
	for _, path := range args {
		var diags formats.Diagnostics
		if strings.EqualFold(filepath.Ext(path), ".mtl") {
			lib, err := a.loadLibrary(path)
			if err != nil {
				return err
			}
			diags = lib.Diagnostics
		} else {
			mesh, err := a.load(path)
			if err != nil {
				return err
			}
			diags = mesh.Diagnostics
		}

		errs := multierr.Errors(diags.Err())
		for _, err := range errs {
			fmt.Fprintln(a.out, err)
		}
		total += len(errs)
	}

	fmt.Fprintf(a.out, "%d files, %d diagnostics\n", len(args), total)
	if total > 0 {
		return errDiagnostics
	}
	return nil
}

// loadLibrary parses a standalone MTL file in the configured charset.
func (a *app) loadLibrary(path string) (*formats.MaterialLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MTL file: %w", err)
	}
	defer f.Close()

	text, err := encoding.NewReader(f, a.cfg.Load.Charset)
	if err != nil {
		return nil, err
	}
	return formats.ParseMTL(text, path)
}

func cmdConvert(a *app, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	precision := fs.Int("precision", a.cfg.Export.Precision, "Decimals per float, -1 for shortest")
	noMTL := fs.Bool("no-mtl", false, "Do not write a material library")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return usage("convert [-precision n] [-no-mtl] <in.obj> <out.obj>")
	}

	mesh, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}

	outPath := fs.Arg(1)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	exportOpts := model.ExportOptions{Precision: *precision}
	if !*noMTL {
		mtlPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".mtl"
		exportOpts.Dir = filepath.Dir(mtlPath)
		if err := writeFile(mtlPath, func(w io.Writer) error {
			return model.WriteMTL(w, mesh.Materials, exportOpts)
		}); err != nil {
			return err
		}
		exportOpts.MaterialLibrary = filepath.Base(mtlPath)
	}

	if err := writeFile(outPath, func(w io.Writer) error {
		return model.WriteOBJ(w, mesh, exportOpts)
	}); err != nil {
		return err
	}

	a.log.Info("converted",
		zap.String("in", fs.Arg(0)),
		zap.String("out", outPath),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()))
	fmt.Fprintf(a.out, "Wrote %s (%d vertices, %d triangles)\n", outPath, len(mesh.Vertices), mesh.TriangleCount())
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func cmdConfig(a *app, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	save := fs.Bool("save", false, "Write the effective config instead of printing it")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 1 || (fs.NArg() == 1 && !*save) {
		return usage("config [-save [path]]")
	}

	if !*save {
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	}

	if fs.NArg() == 1 {
		if err := a.cfg.SaveTo(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote %s\n", fs.Arg(0))
		return nil
	}
	if err := a.cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	return nil
}
