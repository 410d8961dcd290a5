// Package engine runs the full ingest pipeline: format detection, parser
// resolution, streaming decode, per-triangle validation, and model
// accumulation.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
	"github.com/notashes/cadstream/internal/stl"
)

// Engine parses mesh files into validated models. It holds only the
// read-only registry and fixed settings, so one Engine serves concurrent
// parses without locking; every call produces its own mesh and warning
// list.
type Engine struct {
	reg    *parse.Registry
	limits parse.Limits
	opts   parse.Options
}

// New returns an engine using the given registry, limits, and options.
func New(reg *parse.Registry, limits parse.Limits, opts parse.Options) *Engine {
	return &Engine{reg: reg, limits: limits, opts: opts}
}

// Registry returns the engine's format table.
func (e *Engine) Registry() *parse.Registry {
	return e.reg
}

// DefaultRegistry wires the built-in STL parsers.
func DefaultRegistry() *parse.Registry {
	return parse.NewRegistry(map[parse.Format]parse.Parser{
		parse.StlASCII:  stl.ASCII{},
		parse.StlBinary: stl.Binary{},
	})
}

// ParseFile reads path and parses its contents.
func (e *Engine) ParseFile(path string) (*cad.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &parse.Error{
			Kind:   parse.KindIO,
			Detail: fmt.Sprintf("read %s", path),
			Err:    err,
		}
	}
	return e.ParseData(path, data)
}

// ParseData parses data read from path. On success the returned mesh is
// complete and immutable; on failure no partial mesh is returned.
func (e *Engine) ParseData(path string, data []byte) (*cad.Mesh, error) {
	if e.limits.MaxFileBytes > 0 && len(data) > e.limits.MaxFileBytes {
		return nil, &parse.Error{
			Kind:   parse.KindResourceLimit,
			Detail: fmt.Sprintf("file is %d bytes, limit is %d", len(data), e.limits.MaxFileBytes),
		}
	}

	format, err := parse.Detect(path, data)
	if err != nil {
		return nil, err
	}
	p, err := e.reg.Resolve(format)
	if err != nil {
		return nil, err
	}

	b := cad.NewBuilder(meshName(path), string(format))
	emit := func(t cad.Triangle) error {
		if e.limits.MaxTriangles > 0 && b.Count() >= e.limits.MaxTriangles {
			return &parse.Error{
				Kind:   parse.KindResourceLimit,
				Detail: fmt.Sprintf("more than %d triangles", e.limits.MaxTriangles),
			}
		}
		out := checkTriangle(t)
		if out.Verdict == Rejected {
			return &parse.Error{
				Kind:   parse.KindMalformedStructure,
				Detail: fmt.Sprintf("triangle %d: %s", b.Count(), out.Reason),
			}
		}
		b.Add(out.Triangle, out.Warnings...)
		return nil
	}

	declared, err := p.Parse(data, e.opts, emit)
	if err != nil {
		return nil, err
	}

	// Re-confirm the header count independently of the parser's own
	// bookkeeping. A mismatch here is a bug in the parser, not bad input.
	if declared >= 0 && declared != b.Count() {
		return nil, &parse.Error{
			Kind:   parse.KindInternal,
			Detail: fmt.Sprintf("parser produced %d triangles, header declares %d", b.Count(), declared),
		}
	}

	return b.Finalize(len(data)), nil
}

func meshName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return "unknown"
	}
	return base
}
