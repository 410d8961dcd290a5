package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/notashes/cadstream/internal/cad"
)

// EncodeBinary writes m in the compact layout. The header carries the mesh
// name, truncated to 80 bytes.
func EncodeBinary(w io.Writer, m *cad.Mesh) error {
	buf := make([]byte, 0, headerSize+countSize+len(m.Triangles)*recordSize)

	var header [headerSize]byte
	copy(header[:], m.Name)
	buf = append(buf, header[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Triangles)))

	for i := range m.Triangles {
		t := &m.Triangles[i]
		buf = appendVec(buf, t.Normal)
		for _, v := range t.Vertices {
			buf = appendVec(buf, v)
		}
		buf = append(buf, 0, 0) // attribute field
	}

	_, err := w.Write(buf)
	return err
}

func appendVec(buf []byte, v cad.Vec3) []byte {
	for i := 0; i < 3; i++ {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[i]))
	}
	return buf
}

// EncodeASCII writes m in the textual grammar.
func EncodeASCII(w io.Writer, m *cad.Mesh) error {
	bw := bufio.NewWriter(w)
	name := m.Name
	if name == "" {
		name = "mesh"
	}

	fmt.Fprintf(bw, "solid %s\n", name)
	for i := range m.Triangles {
		t := &m.Triangles[i]
		fmt.Fprintf(bw, "  facet normal %s\n", fmtVec(t.Normal))
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range t.Vertices {
			fmt.Fprintf(bw, "      vertex %s\n", fmtVec(v))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

func fmtVec(v cad.Vec3) string {
	return fmt.Sprintf("%g %g %g", v[0], v[1], v[2])
}
