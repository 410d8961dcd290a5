package cad

// Builder accumulates triangles into a Mesh as a parser produces them.
// Each Add is an O(1) fold: append, extend the bounding box, record
// warnings. Nothing is recomputed from scratch.
type Builder struct {
	mesh Mesh
}

// NewBuilder starts an empty mesh for the given source name and format tag.
func NewBuilder(name, format string) *Builder {
	return &Builder{mesh: Mesh{Name: name, Format: format}}
}

// Add appends t to the mesh and attaches any warnings to its index.
func (b *Builder) Add(t Triangle, warns ...WarningKind) {
	idx := len(b.mesh.Triangles)
	b.mesh.Triangles = append(b.mesh.Triangles, t)
	for _, v := range t.Vertices {
		b.mesh.Bounds.Extend(v)
	}
	for _, k := range warns {
		b.mesh.Warnings = append(b.mesh.Warnings, Warning{Index: idx, Kind: k})
	}
}

// Count returns the number of triangles accumulated so far.
func (b *Builder) Count() int {
	return len(b.mesh.Triangles)
}

// Finalize returns the completed mesh. The builder must not be used
// afterwards.
func (b *Builder) Finalize(sourceBytes int) *Mesh {
	m := b.mesh
	m.SourceBytes = sourceBytes
	b.mesh = Mesh{}
	return &m
}
