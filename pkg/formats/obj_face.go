package formats

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCorner parses one face corner token. Accepted shapes are "p", "p/t",
// "p//n" and "p/t/n", and each corner is parsed on its own.
// ok is false when the position cannot be read; the corner is then dropped.
// A non-nil err with ok set describes an attribute that fell back to the sentinel.
func parseCorner(token string, counts tableCounts) (c Corner, ok bool, err error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return Corner{}, false, fmt.Errorf("%w: corner %q has %d fields", ErrMalformedIndex, token, len(parts))
	}

	raw, perr := strconv.Atoi(parts[0])
	if perr != nil {
		return Corner{}, false, fmt.Errorf("%w: position %q", ErrMalformedIndex, parts[0])
	}
	if raw == 0 {
		err = fmt.Errorf("%w: position index 0 in %q", ErrMalformedIndex, token)
	}
	c.Position = ResolveIndex(raw, counts.positions)

	if len(parts) > 1 && parts[1] != "" {
		raw, perr := strconv.Atoi(parts[1])
		if perr != nil {
			err = fmt.Errorf("%w: texcoord %q", ErrTokenParse, parts[1])
		} else {
			c.TexCoord = ResolveIndex(raw, counts.texCoords)
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		raw, perr := strconv.Atoi(parts[2])
		if perr != nil {
			err = fmt.Errorf("%w: normal %q", ErrTokenParse, parts[2])
		} else {
			c.Normal = ResolveIndex(raw, counts.normals)
		}
	}

	return c, true, err
}

// assembleFace parses the corner tokens of a face record and fan-triangulates
// them. Corners that cannot be read are skipped; a face left with fewer than 3
// corners produces no triangles and an ErrShortFace.
func assembleFace(tokens []string, counts tableCounts) ([]Corner, []error) {
	var errs []error
	corners := make([]Corner, 0, len(tokens))

	for _, token := range tokens {
		c, ok, err := parseCorner(token, counts)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			corners = append(corners, c)
		}
	}

	if len(corners) < 3 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrShortFace, len(corners)))
		return nil, errs
	}

	return TriangulateFan(corners), errs
}

// TriangulateFan splits a polygon into triangles sharing its first corner:
// (c0, c[i-1], c[i]) for i = 2..k-1. Polygons are assumed convex and planar.
// Fewer than 3 corners yields nil.
func TriangulateFan(corners []Corner) []Corner {
	if len(corners) < 3 {
		return nil
	}

	tris := make([]Corner, 0, (len(corners)-2)*3)
	for i := 2; i < len(corners); i++ {
		tris = append(tris, corners[0], corners[i-1], corners[i])
	}
	return tris
}
