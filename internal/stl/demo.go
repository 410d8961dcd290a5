package stl

import (
	"bytes"
	"fmt"
	"os"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
)

// DemoCube returns the small demonstration solid used to seed an empty
// watch directory: the top and bottom faces of a unit cube, four facets.
func DemoCube(format parse.Format) *cad.Mesh {
	b := cad.NewBuilder("demo_cube", string(format))

	tri := func(n cad.Vec3, v0, v1, v2 cad.Vec3) {
		b.Add(cad.Triangle{Normal: n, Vertices: [3]cad.Vec3{v0, v1, v2}})
	}

	up := cad.Vec3{0, 0, 1}
	down := cad.Vec3{0, 0, -1}

	tri(up, cad.Vec3{0, 0, 1}, cad.Vec3{1, 0, 1}, cad.Vec3{1, 1, 1})
	tri(up, cad.Vec3{0, 0, 1}, cad.Vec3{1, 1, 1}, cad.Vec3{0, 1, 1})
	tri(down, cad.Vec3{0, 0, 0}, cad.Vec3{1, 1, 0}, cad.Vec3{1, 0, 0})
	tri(down, cad.Vec3{0, 0, 0}, cad.Vec3{0, 1, 0}, cad.Vec3{1, 1, 0})

	return b.Finalize(0)
}

// WriteDemoFile writes the demo cube to path in the given representation.
func WriteDemoFile(path string, format parse.Format) error {
	m := DemoCube(format)

	var buf bytes.Buffer
	var err error
	switch format {
	case parse.StlBinary:
		err = EncodeBinary(&buf, m)
	case parse.StlASCII:
		err = EncodeASCII(&buf, m)
	default:
		err = fmt.Errorf("no encoder for format %q", format)
	}
	if err != nil {
		return fmt.Errorf("stl: encode demo cube: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("stl: write %s: %w", path, err)
	}
	return nil
}
