package cad

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is the vector type used throughout the model. STL stores 32-bit
// floats on disk, so the 32-bit flavor is used end to end.
type Vec3 = mgl32.Vec3

// Triangle is one facet: a normal plus three vertices in file order.
// Winding is preserved as read.
type Triangle struct {
	Normal   Vec3
	Vertices [3]Vec3
}

// WarningKind classifies a non-fatal issue found during validation.
type WarningKind int

const (
	// DegenerateGeometry marks a triangle whose area is effectively zero.
	// The triangle is still part of the mesh.
	DegenerateGeometry WarningKind = iota
	// NormalRecomputed marks a triangle whose supplied normal was replaced
	// with one derived from the vertex geometry.
	NormalRecomputed
)

func (k WarningKind) String() string {
	switch k {
	case DegenerateGeometry:
		return "degenerate geometry"
	case NormalRecomputed:
		return "normal recomputed"
	}
	return "unknown"
}

// Warning ties a non-fatal issue to the triangle it was found on.
type Warning struct {
	Index int // triangle index in file order
	Kind  WarningKind
}

// BoundingBox is the minimal axis-aligned box containing a set of points.
// The zero value is empty; Extend makes it valid.
type BoundingBox struct {
	Min Vec3
	Max Vec3

	valid bool
}

// Extend grows the box to contain v.
func (b *BoundingBox) Extend(v Vec3) {
	if !b.valid {
		b.Min, b.Max = v, v
		b.valid = true
		return
	}
	for i := 0; i < 3; i++ {
		if v[i] < b.Min[i] {
			b.Min[i] = v[i]
		}
		if v[i] > b.Max[i] {
			b.Max[i] = v[i]
		}
	}
}

// IsEmpty reports whether no point has been folded into the box yet.
func (b BoundingBox) IsEmpty() bool {
	return !b.valid
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents per axis.
func (b BoundingBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
