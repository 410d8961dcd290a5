// Package parse defines the capability shared by all mesh file parsers:
// consume a byte source and produce a triangle sequence or a terminal
// error. Format detection and the parser registry live here too; concrete
// formats are registered from the outside, so adding a format touches no
// code in this package.
package parse

import (
	"github.com/notashes/cadstream/internal/cad"
)

// EmitFunc receives each decoded triangle in file order. Returning a
// non-nil error aborts the parse immediately; the parser must not emit
// again after that.
type EmitFunc func(t cad.Triangle) error

// Options adjust behavior for a single parse call.
type Options struct {
	// AllowTruncated makes a binary triangle-count mismatch non-fatal: the
	// complete records present are decoded instead of failing with
	// TriangleCountMismatch. The default is the strict contract — a hard
	// failure with no partial mesh.
	AllowTruncated bool
}

// Limits bound the resources a single parse may consume. A zero field
// means no limit on that axis.
type Limits struct {
	MaxFileBytes int
	MaxTriangles int
}

// Parser decodes one on-disk format. Implementations hold no per-call
// state, so a single value may serve concurrent parses.
type Parser interface {
	// Name identifies the implementation in logs and reports.
	Name() string

	// Parse decodes data, forwarding triangles to emit one at a time. The
	// returned declared count is the triangle count the file header
	// announces, or -1 for formats that carry none; the caller cross-checks
	// it against the triangles actually emitted.
	Parse(data []byte, opts Options, emit EmitFunc) (declared int, err error)
}
