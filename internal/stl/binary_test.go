package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
)

// buildBinary assembles a binary STL image with the given header count and
// record payloads.
func buildBinary(declared uint32, tris []cad.Triangle) []byte {
	buf := make([]byte, headerSize)
	buf = binary.LittleEndian.AppendUint32(buf, declared)
	for i := range tris {
		t := &tris[i]
		buf = appendVec(buf, t.Normal)
		for _, v := range t.Vertices {
			buf = appendVec(buf, v)
		}
		buf = append(buf, 0, 0)
	}
	return buf
}

func genTriangles(count int) []cad.Triangle {
	tris := make([]cad.Triangle, count)
	for i := range tris {
		x := float32(i) * 0.1
		tris[i] = cad.Triangle{
			Normal: cad.Vec3{0, 0, 1},
			Vertices: [3]cad.Vec3{
				{x, 0, 0},
				{x, 1, 0},
				{x, 0, 1},
			},
		}
	}
	return tris
}

func TestBinaryEmptyFile(t *testing.T) {
	// 80-byte zero header plus a zero count field: a valid empty mesh.
	data := make([]byte, headerSize+countSize)

	tris, declared, err := collect(t, Binary{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if declared != 0 {
		t.Errorf("declared = %d, want 0", declared)
	}
	if len(tris) != 0 {
		t.Errorf("got %d triangles, want 0", len(tris))
	}
}

func TestBinaryDecodesRecords(t *testing.T) {
	want := genTriangles(3)
	data := buildBinary(3, want)

	tris, declared, err := collect(t, Binary{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if declared != 3 {
		t.Errorf("declared = %d, want 3", declared)
	}
	if !reflect.DeepEqual(tris, want) {
		t.Errorf("triangles = %+v, want %+v", tris, want)
	}
}

func TestBinaryTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 79, 83} {
		data := make([]byte, n)
		_, _, err := collect(t, Binary{}, data, parse.Options{})
		pe := requireKind(t, err, parse.KindUnexpectedEOF)
		if pe.Offset != 0 {
			t.Errorf("len %d: offset = %d, want 0", n, pe.Offset)
		}
	}
}

func TestBinaryCountMismatch(t *testing.T) {
	// Header declares 5 but only 3 full records follow.
	data := buildBinary(5, genTriangles(3))

	_, _, err := collect(t, Binary{}, data, parse.Options{})
	pe := requireKind(t, err, parse.KindTriangleCountMismatch)
	if pe.Declared != 5 || pe.Actual != 3 {
		t.Errorf("declared/actual = %d/%d, want 5/3", pe.Declared, pe.Actual)
	}
	wantOffset := int64(headerSize + countSize + 3*recordSize)
	if pe.Offset != wantOffset {
		t.Errorf("offset = %d, want %d (start of the 4th record)", pe.Offset, wantOffset)
	}
}

func TestBinaryCountMismatchPartialRecord(t *testing.T) {
	// Three full records plus half of a fourth.
	data := buildBinary(5, genTriangles(3))
	data = append(data, make([]byte, recordSize/2)...)

	_, _, err := collect(t, Binary{}, data, parse.Options{})
	pe := requireKind(t, err, parse.KindTriangleCountMismatch)
	if pe.Declared != 5 || pe.Actual != 3 {
		t.Errorf("declared/actual = %d/%d, want 5/3", pe.Declared, pe.Actual)
	}
}

func TestBinaryAllowTruncated(t *testing.T) {
	data := buildBinary(5, genTriangles(3))

	tris, declared, err := collect(t, Binary{}, data, parse.Options{AllowTruncated: true})
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if declared != 3 {
		t.Errorf("declared = %d, want 3 (records that fit)", declared)
	}
	if len(tris) != 3 {
		t.Errorf("got %d triangles, want 3", len(tris))
	}
}

func TestBinaryAttributeBytesIgnored(t *testing.T) {
	want := genTriangles(1)
	data := buildBinary(1, want)
	// Scribble on the attribute field; decoding must not care.
	data[len(data)-2] = 0xAB
	data[len(data)-1] = 0xCD

	tris, _, err := collect(t, Binary{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tris[0] != want[0] {
		t.Errorf("triangle = %+v, want %+v", tris[0], want[0])
	}
}

func TestBinaryPreservesExactBits(t *testing.T) {
	// Values with no short decimal form must survive bit-exactly.
	v := math.Float32frombits(0x3f9d70a4) // ~1.23
	want := cad.Triangle{
		Normal:   cad.Vec3{v, -v, v},
		Vertices: [3]cad.Vec3{{v, 0, 0}, {0, v, 0}, {0, 0, v}},
	}
	data := buildBinary(1, []cad.Triangle{want})

	tris, _, err := collect(t, Binary{}, data, parse.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tris[0] != want {
		t.Errorf("triangle = %+v, want %+v", tris[0], want)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	b := cad.NewBuilder("roundtrip", string(parse.StlBinary))
	for _, tri := range genTriangles(7) {
		b.Add(tri)
	}
	mesh := b.Finalize(0)

	var buf bytes.Buffer
	if err := EncodeBinary(&buf, mesh); err != nil {
		t.Fatalf("encode: %v", err)
	}
	wantLen := headerSize + countSize + 7*recordSize
	if buf.Len() != wantLen {
		t.Fatalf("encoded length = %d, want %d", buf.Len(), wantLen)
	}

	tris, declared, err := collect(t, Binary{}, buf.Bytes(), parse.Options{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if declared != 7 {
		t.Errorf("declared = %d, want 7", declared)
	}
	if !reflect.DeepEqual(tris, mesh.Triangles) {
		t.Errorf("round trip changed triangles")
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	mesh := DemoCube(parse.StlASCII)

	var buf bytes.Buffer
	if err := EncodeASCII(&buf, mesh); err != nil {
		t.Fatalf("encode: %v", err)
	}

	tris, _, err := collect(t, ASCII{}, buf.Bytes(), parse.Options{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(tris, mesh.Triangles) {
		t.Errorf("round trip changed triangles")
	}
}

func BenchmarkBinaryParse(b *testing.B) {
	for _, count := range []int{100, 1000, 10000} {
		data := buildBinary(uint32(count), genTriangles(count))
		b.Run(fmt.Sprintf("triangles-%d", count), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, _, err := collect(b, Binary{}, data, parse.Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
