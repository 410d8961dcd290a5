package engine

import (
	"fmt"
	"math"

	"github.com/notashes/cadstream/internal/cad"
)

// Verdict classifies one triangle's validation outcome.
type Verdict int

const (
	Accepted Verdict = iota
	AcceptedWithWarnings
	Rejected
)

// Outcome is the per-triangle validation result. Warned triangles still
// enter the mesh; a rejected one aborts the parse.
type Outcome struct {
	Verdict  Verdict
	Triangle cad.Triangle
	Warnings []cad.WarningKind
	Reason   string // set when rejected
}

const (
	// degenerateArea is the area below which a facet is flagged as
	// degenerate.
	degenerateArea = 1e-12
	// zeroNormalSq is the squared magnitude below which a supplied normal
	// counts as absent.
	zeroNormalSq = 1e-12
)

// checkTriangle applies the structural and numeric checks every triangle
// must pass before entering the model.
//
// Non-finite components are a hard rejection. A near-zero area attaches a
// degenerate-geometry warning but keeps the triangle; a degenerate facet
// has no usable geometric normal, so its supplied normal is left alone.
// Otherwise, a supplied normal that is near zero or points against the
// winding-derived direction is replaced with the geometric normal and the
// replacement is recorded as a warning.
func checkTriangle(t cad.Triangle) Outcome {
	if what, bad := nonFinite(t); bad {
		return Outcome{
			Verdict: Rejected,
			Reason:  fmt.Sprintf("non-finite %s component", what),
		}
	}

	out := Outcome{Triangle: t}

	e1 := t.Vertices[1].Sub(t.Vertices[0])
	e2 := t.Vertices[2].Sub(t.Vertices[0])
	cross := e1.Cross(e2)
	area := cross.Len() / 2

	if area < degenerateArea {
		out.Warnings = append(out.Warnings, cad.DegenerateGeometry)
	} else {
		geo := cross.Normalize()
		if t.Normal.Dot(t.Normal) < zeroNormalSq || t.Normal.Dot(geo) < 0 {
			out.Triangle.Normal = geo
			out.Warnings = append(out.Warnings, cad.NormalRecomputed)
		}
	}

	if len(out.Warnings) > 0 {
		out.Verdict = AcceptedWithWarnings
	}
	return out
}

func nonFinite(t cad.Triangle) (string, bool) {
	bad := func(v cad.Vec3) bool {
		for i := 0; i < 3; i++ {
			f := float64(v[i])
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
		}
		return false
	}
	if bad(t.Normal) {
		return "normal", true
	}
	for i, v := range t.Vertices {
		if bad(v) {
			return fmt.Sprintf("vertex %d", i+1), true
		}
	}
	return "", false
}
