package parse

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
)

// Format tags one supported on-disk representation.
type Format string

const (
	StlASCII  Format = "stl-ascii"
	StlBinary Format = "stl-binary"
)

// Extensions returns the lowercase file extensions (with dot) that may
// hold this format.
func (f Format) Extensions() []string {
	switch f {
	case StlASCII, StlBinary:
		return []string{".stl"}
	}
	return nil
}

// Detect maps a file path and a peek at its first bytes to a format tag.
// The extension is matched first (case-insensitive); ".stl" covers both
// representations, so the content decides between them. Detect reads
// nothing itself and has no side effects.
func Detect(path string, head []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".stl" {
		return "", &Error{
			Kind:   KindUnsupportedFormat,
			Detail: fmt.Sprintf("unrecognized extension %q in %s", ext, filepath.Base(path)),
		}
	}

	if looksTextual(head) {
		// A binary file whose arbitrary header happens to start with
		// "solid" is still binary when the declared record count matches
		// the byte length exactly.
		if binaryLengthConsistent(head) {
			return StlBinary, nil
		}
		return StlASCII, nil
	}
	return StlBinary, nil
}

// looksTextual reports whether head starts (after optional whitespace)
// with the "solid" keyword and the first KB contains only printable ASCII.
func looksTextual(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if len(trimmed) < 5 || !strings.EqualFold(string(trimmed[:5]), "solid") {
		return false
	}
	n := len(head)
	if n > 1024 {
		n = 1024
	}
	for _, b := range head[:n] {
		if b == 0 || b >= 0x80 {
			return false
		}
	}
	return true
}

// binaryLengthConsistent reports whether head is a complete binary STL
// file: 80-byte header, little-endian record count, and exactly count
// 50-byte records.
func binaryLengthConsistent(head []byte) bool {
	if len(head) < 84 {
		return false
	}
	n := binary.LittleEndian.Uint32(head[80:84])
	return int64(len(head)) == 84+int64(n)*50
}
