package formats

// DefaultGroupName names the group that collects faces before any g/o statement.
const DefaultGroupName = "default"

// Group is a named run of triangles bound to one material.
type Group struct {
	Name     string
	Material string   // Material name as written in usemtl, resolved at assembly
	Corners  []Corner // Triangle list, always a multiple of 3
}

// groupTracker owns the group list and the current group handle.
// Groups are addressed by index so the handle survives slice growth.
type groupTracker struct {
	groups   []Group
	byName   map[string]int
	current  int
	material string
}

func newGroupTracker() *groupTracker {
	gt := &groupTracker{
		byName:   make(map[string]int),
		material: DefaultMaterialName,
	}
	gt.groups = append(gt.groups, Group{Name: DefaultGroupName, Material: DefaultMaterialName})
	gt.byName[DefaultGroupName] = 0
	return gt
}

// selectGroup makes name the current group, creating it on first sight.
// The group picks up the material that is current at this point.
// An empty name leaves the current group and its material untouched.
func (gt *groupTracker) selectGroup(name string) {
	if name == "" {
		return
	}

	idx, ok := gt.byName[name]
	if !ok {
		idx = len(gt.groups)
		gt.groups = append(gt.groups, Group{Name: name})
		gt.byName[name] = idx
	}

	gt.current = idx
	gt.groups[idx].Material = gt.material
}

// useMaterial sets the current material and binds it to the current group.
func (gt *groupTracker) useMaterial(name string) {
	gt.material = name
	gt.groups[gt.current].Material = name
}

func (gt *groupTracker) addTriangles(corners []Corner) {
	g := &gt.groups[gt.current]
	g.Corners = append(g.Corners, corners...)
}
