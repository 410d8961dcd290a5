package cad

// Mesh is the completed result of one successful parse: the triangle
// sequence in file order, derived bounds and metadata, and any warnings
// recorded during validation. A Mesh is immutable once returned to the
// caller.
type Mesh struct {
	Name        string
	Format      string // source format tag, e.g. "stl-binary"
	Triangles   []Triangle
	Bounds      BoundingBox
	Warnings    []Warning
	SourceBytes int // size of the input the mesh was decoded from
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Size returns the bounding-box extents per axis.
func (m *Mesh) Size() Vec3 {
	return m.Bounds.Size()
}

// Center returns the bounding-box midpoint.
func (m *Mesh) Center() Vec3 {
	return m.Bounds.Center()
}

// MaxDimension returns the largest bounding-box extent.
func (m *Mesh) MaxDimension() float32 {
	s := m.Size()
	max := s[0]
	if s[1] > max {
		max = s[1]
	}
	if s[2] > max {
		max = s[2]
	}
	return max
}

// Summary holds the metadata callers need without walking the triangle
// sequence.
type Summary struct {
	Name          string
	Format        string
	TriangleCount int
	Bounds        BoundingBox
	HasWarnings   bool
}

// Summary returns the mesh metadata.
func (m *Mesh) Summary() Summary {
	return Summary{
		Name:          m.Name,
		Format:        m.Format,
		TriangleCount: len(m.Triangles),
		Bounds:        m.Bounds,
		HasWarnings:   len(m.Warnings) > 0,
	}
}
