package stl

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
)

func collect(tb testing.TB, p parse.Parser, data []byte, opts parse.Options) ([]cad.Triangle, int, error) {
	tb.Helper()
	var tris []cad.Triangle
	declared, err := p.Parse(data, opts, func(t cad.Triangle) error {
		tris = append(tris, t)
		return nil
	})
	return tris, declared, err
}

func requireKind(tb testing.TB, err error, want parse.Kind) *parse.Error {
	tb.Helper()
	if err == nil {
		tb.Fatalf("expected %s error, got nil", want)
	}
	pe, ok := err.(*parse.Error)
	if !ok {
		tb.Fatalf("expected *parse.Error, got %T: %v", err, err)
	}
	if pe.Kind != want {
		tb.Fatalf("expected kind %s, got %s: %v", want, pe.Kind, err)
	}
	return pe
}

func TestASCIISingleFacet(t *testing.T) {
	data := []byte(`solid cube
facet normal 0.0 0.0 1.0
outer loop
vertex 0.0 0.0 0.0
vertex 1.0 0.0 0.0
vertex 0.0 1.0 0.0
endloop
endfacet
endsolid cube
`)

	tris, declared, err := collect(t, ASCII{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if declared != -1 {
		t.Errorf("declared = %d, want -1 for textual input", declared)
	}
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}

	want := cad.Triangle{
		Normal: cad.Vec3{0, 0, 1},
		Vertices: [3]cad.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
		},
	}
	if tris[0] != want {
		t.Errorf("triangle = %+v, want %+v", tris[0], want)
	}
}

func TestASCIICaseAndWhitespaceInsensitive(t *testing.T) {
	// Keywords in mixed case, tokens split across lines, tabs for indent.
	data := []byte("SOLID shouty\n" +
		"\tFACET\n\tNORMAL 0 0 1\n" +
		"\tOuter Loop\n" +
		"\t\tVertex 0 0 0\n" +
		"\t\tVERTEX 2 0 0\n" +
		"\t\tvertex 0 2 0\n" +
		"\tENDLOOP\n" +
		"\tEndFacet\n" +
		"ENDSOLID shouty\n")

	tris, _, err := collect(t, ASCII{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	if tris[0].Vertices[1] != (cad.Vec3{2, 0, 0}) {
		t.Errorf("vertex 2 = %v, want (2 0 0)", tris[0].Vertices[1])
	}
}

func TestASCIIEmptySolid(t *testing.T) {
	tris, _, err := collect(t, ASCII{}, []byte("solid nothing\nendsolid nothing\n"), parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tris) != 0 {
		t.Errorf("got %d triangles, want 0", len(tris))
	}
}

func TestASCIIMissingEndsolid(t *testing.T) {
	data := []byte(`solid test
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
`)

	_, _, err := collect(t, ASCII{}, data, parse.Options{})
	pe := requireKind(t, err, parse.KindMalformedStructure)
	// The error must cite the line of the last consumed token, endfacet on
	// line 8.
	if pe.Line != 8 {
		t.Errorf("error line = %d, want 8: %v", pe.Line, err)
	}
}

func TestASCIIStructuralErrors(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantLine int
	}{
		{
			name:     "missing solid header",
			input:    "facet normal 0 0 1\n",
			wantLine: 1,
		},
		{
			name:     "unexpected token between facets",
			input:    "solid t\nbogus\n",
			wantLine: 2,
		},
		{
			name:     "bad numeric token",
			input:    "solid t\nfacet normal 0 zero 1\n",
			wantLine: 2,
		},
		{
			name:     "missing vertex keyword",
			input:    "solid t\nfacet normal 0 0 1\nouter loop\n0 0 0\n",
			wantLine: 4,
		},
		{
			name:     "truncated inside facet",
			input:    "solid t\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\n",
			wantLine: 4,
		},
		{
			name:     "empty input",
			input:    "",
			wantLine: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := collect(t, ASCII{}, []byte(tc.input), parse.Options{})
			pe := requireKind(t, err, parse.KindMalformedStructure)
			if pe.Line != tc.wantLine {
				t.Errorf("error line = %d, want %d: %v", pe.Line, tc.wantLine, err)
			}
		})
	}
}

func TestASCIIEmitErrorAborts(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeASCII(&buf, DemoCube(parse.StlASCII)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	calls := 0
	stop := fmt.Errorf("stop")
	_, err := ASCII{}.Parse(buf.Bytes(), parse.Options{}, func(cad.Triangle) error {
		calls++
		return stop
	})
	if err != stop {
		t.Errorf("err = %v, want the emit error back", err)
	}
	if calls != 1 {
		t.Errorf("emit called %d times after abort, want 1", calls)
	}
}

func genASCII(count int) []byte {
	var buf bytes.Buffer
	buf.WriteString("solid bench\n")
	for i := 0; i < count; i++ {
		x := float32(i) * 0.1
		fmt.Fprintf(&buf, "  facet normal 0 0 1\n    outer loop\n")
		fmt.Fprintf(&buf, "      vertex %g 0 0\n      vertex %g 1 0\n      vertex %g 0 1\n", x, x, x)
		buf.WriteString("    endloop\n  endfacet\n")
	}
	buf.WriteString("endsolid bench\n")
	return buf.Bytes()
}

func BenchmarkASCIIParse(b *testing.B) {
	for _, count := range []int{100, 1000, 10000} {
		data := genASCII(count)
		b.Run(fmt.Sprintf("triangles-%d", count), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, _, err := collect(b, ASCII{}, data, parse.Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
