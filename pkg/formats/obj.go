package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/objmesh/pkg/encoding"
	"github.com/Faultbox/objmesh/pkg/math"
)

// DefaultTexCoord fills texcoord slot 0. It is non-zero so an unset texcoord
// never collides with a real (0, 0).
var DefaultTexCoord = math.Vec2{X: 1, Y: 1}

// OBJOptions controls how an OBJ document and its libraries are read.
type OBJOptions struct {
	// Dir is the base directory for relative mtllib names.
	// ParseOBJFile defaults it to the directory of the OBJ file.
	Dir string
	// Charset of the OBJ and MTL text, see encoding.Lookup. Empty means UTF-8.
	Charset string
	// SkipLibraries ignores mtllib statements.
	SkipLibraries bool
	// DisableFallbackLibrary stops ParseOBJFile from trying <name>.mtl when no
	// referenced library produced a material.
	DisableFallbackLibrary bool
}

// OBJ is the result of the parse phase: raw attribute tables, groups of
// resolved corners and the material table. Slot 0 of every table is the
// sentinel.
type OBJ struct {
	Path        string
	Positions   []math.Vec3
	Normals     []math.Vec3
	TexCoords   []math.Vec2
	Groups      []Group
	Library     *MaterialLibrary
	Libraries   []string // Library files that were loaded, in order
	Diagnostics Diagnostics
}

// CornerCount returns the number of corners across all groups.
func (o *OBJ) CornerCount() int {
	total := 0
	for _, g := range o.Groups {
		total += len(g.Corners)
	}
	return total
}

// HasNormals reports whether the document supplied any vn records.
func (o *OBJ) HasNormals() bool {
	return len(o.Normals) > 1
}

// ParseOBJFile parses an OBJ file from disk. Failing to open it is the only
// fatal condition; everything inside the file is parsed tolerantly.
func ParseOBJFile(path string, opts OBJOptions) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}

	obj, err := parseOBJ(f, path, opts)
	if err != nil {
		return nil, err
	}

	if !opts.SkipLibraries && !opts.DisableFallbackLibrary && obj.Library.Len() <= 1 {
		fallback := filepath.Clean(strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl")
		if !obj.loadedLibrary(fallback) {
			before := len(obj.Library.Diagnostics)
			if err := obj.Library.LoadFile(fallback, opts.Charset); err == nil {
				obj.Libraries = append(obj.Libraries, fallback)
				obj.Diagnostics = append(obj.Diagnostics, obj.Library.Diagnostics[before:]...)
			}
		}
	}

	return obj, nil
}

// ParseOBJ parses an OBJ document from r.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	return parseOBJ(r, "<obj>", opts)
}

func parseOBJ(r io.Reader, source string, opts OBJOptions) (*OBJ, error) {
	text, err := encoding.NewReader(r, opts.Charset)
	if err != nil {
		return nil, err
	}

	p := &objParser{
		obj: &OBJ{
			Path:      source,
			Positions: []math.Vec3{{}},
			Normals:   []math.Vec3{{}},
			TexCoords: []math.Vec2{DefaultTexCoord},
			Library:   NewMaterialLibrary(),
		},
		groups: newGroupTracker(),
		opts:   opts,
	}

	scanner := bufio.NewScanner(text)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		p.line++
		p.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ %s: %w", source, err)
	}

	p.obj.Groups = p.groups.groups
	p.obj.clampCorners()
	return p.obj, nil
}

type objParser struct {
	obj    *OBJ
	groups *groupTracker
	opts   OBJOptions
	line   int
}

func (p *objParser) warn(keyword string, err error) {
	p.obj.Diagnostics.add(p.obj.Path, p.line, keyword, err)
}

func (p *objParser) counts() tableCounts {
	return tableCounts{
		positions: len(p.obj.Positions),
		normals:   len(p.obj.Normals),
		texCoords: len(p.obj.TexCoords),
	}
}

func (p *objParser) parseLine(line string) {
	keyword, rest := splitStatement(line)
	if keyword == "" || strings.HasPrefix(keyword, "#") {
		return
	}

	switch keyword {
	case "v":
		v, err := parseVec3(strings.Fields(rest))
		if err != nil {
			p.warn(keyword, err)
			return
		}
		p.obj.Positions = append(p.obj.Positions, v)

	case "vn":
		n, err := parseVec3(strings.Fields(rest))
		if err != nil {
			p.warn(keyword, err)
			return
		}
		p.obj.Normals = append(p.obj.Normals, n)

	case "vt":
		t, err := parseVec2(strings.Fields(rest))
		if err != nil {
			p.warn(keyword, err)
			return
		}
		p.obj.TexCoords = append(p.obj.TexCoords, t)

	case "f":
		tris, errs := assembleFace(strings.Fields(rest), p.counts())
		for _, err := range errs {
			p.warn(keyword, err)
		}
		if len(tris) > 0 {
			p.groups.addTriangles(tris)
		}

	case "g", "o":
		p.groups.selectGroup(rest)

	case "usemtl":
		if rest == "" {
			p.warn(keyword, ErrMissingArgument)
			return
		}
		p.groups.useMaterial(rest)

	case "mtllib":
		if p.opts.SkipLibraries {
			return
		}
		if rest == "" {
			p.warn(keyword, ErrMissingArgument)
			return
		}
		p.loadLibraries(rest)
	}
}

// loadLibraries loads every library named on an mtllib line. The whole
// argument is tried as one filename first so paths with spaces still work.
func (p *objParser) loadLibraries(rest string) {
	names := []string{rest}
	if strings.ContainsAny(rest, " \t") {
		if _, err := os.Stat(ResolvePath(p.opts.Dir, rest)); err != nil {
			names = strings.Fields(rest)
		}
	}

	for _, name := range names {
		path := ResolvePath(p.opts.Dir, name)
		if p.obj.loadedLibrary(path) {
			continue
		}

		before := len(p.obj.Library.Diagnostics)
		err := p.obj.Library.LoadFile(path, p.opts.Charset)
		p.obj.Diagnostics = append(p.obj.Diagnostics, p.obj.Library.Diagnostics[before:]...)
		if err != nil {
			p.warn("mtllib", err)
			continue
		}
		p.obj.Libraries = append(p.obj.Libraries, path)
	}
}

func (o *OBJ) loadedLibrary(path string) bool {
	for _, l := range o.Libraries {
		if l == path {
			return true
		}
	}
	return false
}

// clampCorners replaces indices that point past their table with the
// sentinel. Indices are checked against the final table sizes because a
// positive index may legally name a record that appears later in the file.
func (o *OBJ) clampCorners() {
	for gi := range o.Groups {
		g := &o.Groups[gi]
		bad := 0
		for ci := range g.Corners {
			c := &g.Corners[ci]
			var okP, okN, okT bool
			c.Position, okP = clampIndex(c.Position, len(o.Positions))
			c.Normal, okN = clampIndex(c.Normal, len(o.Normals))
			c.TexCoord, okT = clampIndex(c.TexCoord, len(o.TexCoords))
			if !okP || !okN || !okT {
				bad++
			}
		}
		if bad > 0 {
			o.Diagnostics.add(o.Path, 0, "f", fmt.Errorf("%w: %d corners in group %q point past their table", ErrMalformedIndex, bad, g.Name))
		}
	}
}

// ResolvePath joins a relative file reference onto dir. Absolute paths pass
// through unchanged; backslash separators in relative references are accepted.
func ResolvePath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	name = filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	return filepath.Join(dir, name)
}

// splitStatement returns the keyword and the trimmed remainder of a line.
func splitStatement(line string) (keyword, rest string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrTokenParse, s)
	}
	return float32(v), nil
}

// parseVec3 reads the first three fields; extra fields (w, vertex colors) are ignored.
func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrTokenParse, len(fields))
	}
	var out [3]float32
	for i := range out {
		v, err := parseFloat(fields[i])
		if err != nil {
			return math.Vec3{}, err
		}
		out[i] = v
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// parseVec2 reads u and an optional v (default 0).
func parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 1 {
		return math.Vec2{}, fmt.Errorf("%w: want 2 components, got 0", ErrTokenParse)
	}
	u, err := parseFloat(fields[0])
	if err != nil {
		return math.Vec2{}, err
	}
	var v float32
	if len(fields) > 1 {
		if v, err = parseFloat(fields[1]); err != nil {
			return math.Vec2{}, err
		}
	}
	return math.Vec2{X: u, Y: v}, nil
}
