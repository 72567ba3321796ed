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

// DefaultMaterialName names the material that always sits at index 0.
const DefaultMaterialName = "default"

// maxLineLength bounds a single OBJ or MTL line.
const maxLineLength = 16 * 1024 * 1024

// Material is one entry of an MTL library. Texture fields hold the map
// statement verbatim; they are resolved against Dir when a mesh is assembled.
type Material struct {
	Name           string
	Ambient        math.Vec3 // Ka
	Diffuse        math.Vec3 // Kd
	Specular       math.Vec3 // Ks
	Shininess      float32   // Ns
	OpticalDensity float32   // Ni
	Dissolve       float32   // d
	Illum          int       // Illumination model

	AmbientMap   string // map_Ka
	DiffuseMap   string // map_Kd
	SpecularMap  string // map_Ks
	ShininessMap string // map_Ns
	AlphaMap     string // map_d
	BumpMap      string // map_bump, map_Bump, bump

	Dir string // Directory of the library that declared the material
}

// NewMaterial returns a material with the default reflectance values.
func NewMaterial(name string) Material {
	return Material{
		Name:           name,
		Ambient:        math.Splat3(0.2),
		Diffuse:        math.Splat3(0.8),
		Specular:       math.Splat3(1.0),
		OpticalDensity: 1.0,
		Dissolve:       1.0,
	}
}

// MaterialLibrary is the material table shared by every library an OBJ
// references. Index 0 is always the default material.
type MaterialLibrary struct {
	Materials   []Material
	Diagnostics Diagnostics

	byName map[string]int
}

// NewMaterialLibrary returns a library holding only the default material.
func NewMaterialLibrary() *MaterialLibrary {
	lib := &MaterialLibrary{byName: make(map[string]int)}
	lib.define(DefaultMaterialName)
	return lib
}

// Index returns the table index of a material name.
func (lib *MaterialLibrary) Index(name string) (int, bool) {
	idx, ok := lib.byName[name]
	return idx, ok
}

// Len returns the number of materials, the default included.
func (lib *MaterialLibrary) Len() int {
	return len(lib.Materials)
}

// define returns the index of name, appending a default material if unseen.
func (lib *MaterialLibrary) define(name string) int {
	if idx, ok := lib.byName[name]; ok {
		return idx
	}
	idx := len(lib.Materials)
	lib.Materials = append(lib.Materials, NewMaterial(name))
	lib.byName[name] = idx
	return idx
}

// LoadFile parses an MTL file from disk into the library.
// A file that cannot be opened leaves the library untouched.
func (lib *MaterialLibrary) LoadFile(path, charset string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLibraryOpen, err)
	}
	defer f.Close()

	return lib.Parse(f, path, charset)
}

// Parse reads MTL statements from r. source names the document in
// diagnostics and its directory becomes the base for relative texture paths.
// Malformed statements are recorded in Diagnostics and skipped.
func (lib *MaterialLibrary) Parse(r io.Reader, source, charset string) error {
	text, err := encoding.NewReader(r, charset)
	if err != nil {
		return err
	}

	p := mtlParser{
		lib:     lib,
		source:  source,
		dir:     filepath.Dir(source),
		current: -1,
	}

	scanner := bufio.NewScanner(text)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		p.line++
		p.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading MTL %s: %w", source, err)
	}
	return nil
}

// ParseMTL parses a standalone MTL document into a new library.
func ParseMTL(r io.Reader, source string) (*MaterialLibrary, error) {
	lib := NewMaterialLibrary()
	if err := lib.Parse(r, source, encoding.DefaultCharset); err != nil {
		return nil, err
	}
	return lib, nil
}

type mtlParser struct {
	lib     *MaterialLibrary
	source  string
	dir     string
	line    int
	current int // Index of the material being defined, -1 before newmtl
}

func (p *mtlParser) warn(keyword string, err error) {
	p.lib.Diagnostics.add(p.source, p.line, keyword, err)
}

func (p *mtlParser) parseLine(line string) {
	keyword, rest := splitStatement(line)
	if keyword == "" || strings.HasPrefix(keyword, "#") {
		return
	}

	if keyword == "newmtl" {
		if rest == "" {
			p.warn(keyword, ErrMissingArgument)
			return
		}
		p.current = p.lib.define(rest)
		p.lib.Materials[p.current].Dir = p.dir
		return
	}

	if !isMaterialKeyword(keyword) {
		return
	}
	if p.current < 0 {
		p.warn(keyword, ErrNoCurrentMaterial)
		return
	}
	m := &p.lib.Materials[p.current]

	switch keyword {
	case "Ka":
		p.parseColor(keyword, rest, &m.Ambient)
	case "Kd":
		p.parseColor(keyword, rest, &m.Diffuse)
	case "Ks":
		p.parseColor(keyword, rest, &m.Specular)
	case "Ns":
		p.parseScalar(keyword, rest, &m.Shininess)
	case "Ni":
		p.parseScalar(keyword, rest, &m.OpticalDensity)
	case "d":
		p.parseScalar(keyword, rest, &m.Dissolve)
	case "illum":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			p.warn(keyword, ErrMissingArgument)
			return
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			p.warn(keyword, fmt.Errorf("%w: %q", ErrTokenParse, fields[0]))
			return
		}
		m.Illum = v
	case "map_Ka":
		p.parseMap(keyword, rest, &m.AmbientMap)
	case "map_Kd":
		p.parseMap(keyword, rest, &m.DiffuseMap)
	case "map_Ks":
		p.parseMap(keyword, rest, &m.SpecularMap)
	case "map_Ns":
		p.parseMap(keyword, rest, &m.ShininessMap)
	case "map_d":
		p.parseMap(keyword, rest, &m.AlphaMap)
	case "map_bump", "map_Bump", "bump":
		p.parseMap(keyword, rest, &m.BumpMap)
	}
}

func isMaterialKeyword(keyword string) bool {
	switch keyword {
	case "Ka", "Kd", "Ks", "Ns", "Ni", "d", "illum",
		"map_Ka", "map_Kd", "map_Ks", "map_Ns", "map_d",
		"map_bump", "map_Bump", "bump":
		return true
	}
	return false
}

// parseColor sets dst from an "r g b" triple; a malformed triple keeps dst.
func (p *mtlParser) parseColor(keyword, rest string, dst *math.Vec3) {
	v, err := parseVec3(strings.Fields(rest))
	if err != nil {
		p.warn(keyword, err)
		return
	}
	*dst = v
}

func (p *mtlParser) parseScalar(keyword, rest string, dst *float32) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		p.warn(keyword, ErrMissingArgument)
		return
	}
	v, err := parseFloat(fields[0])
	if err != nil {
		p.warn(keyword, err)
		return
	}
	*dst = v
}

func (p *mtlParser) parseMap(keyword, rest string, dst *string) {
	if rest == "" {
		p.warn(keyword, ErrMissingArgument)
		return
	}
	*dst = rest
}
