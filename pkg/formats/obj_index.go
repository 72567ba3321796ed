package formats

// Corner is one resolved face corner. Each index is an absolute slot into the
// matching table; 0 is the sentinel for an attribute the corner did not name.
type Corner struct {
	Position int
	Normal   int
	TexCoord int
}

// tableCounts holds table lengths (sentinel included) at the start of a face line.
type tableCounts struct {
	positions int
	normals   int
	texCoords int
}

// ResolveIndex converts a raw OBJ index into an absolute slot.
// Positive indices are 1-based and map directly because slot 0 holds the
// sentinel. Negative indices count back from count, the table length at the
// time the face line was read. Zero, and anything that would land before the
// table start, resolves to the sentinel.
func ResolveIndex(raw, count int) int {
	switch {
	case raw > 0:
		return raw
	case raw < 0:
		idx := count + raw
		if idx < 0 {
			return 0
		}
		return idx
	default:
		return 0
	}
}

// clampIndex returns idx if it addresses a slot of a table of the given
// length, otherwise the sentinel.
func clampIndex(idx, length int) (int, bool) {
	if idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}
