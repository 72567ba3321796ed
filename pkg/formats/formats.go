// Package formats provides parsers for Wavefront OBJ geometry and MTL material
// libraries.
package formats

// Note: OBJ parsing (tables, faces, groups) lives in obj.go, obj_face.go and obj_group.go
// Note: MTL parsing lives in mtl.go
