package parse

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal parse failure.
type Kind int

const (
	// KindIO wraps a failure reading the underlying file.
	KindIO Kind = iota
	// KindUnsupportedFormat means no parser covers the input.
	KindUnsupportedFormat
	// KindMalformedStructure means the input violates the format grammar
	// or carries non-finite geometry.
	KindMalformedStructure
	// KindUnexpectedEOF means the input ended before the fixed layout
	// allows.
	KindUnexpectedEOF
	// KindTriangleCountMismatch means a binary header declares a record
	// count the byte length cannot satisfy.
	KindTriangleCountMismatch
	// KindResourceLimit means the configured size or triangle ceiling was
	// exceeded.
	KindResourceLimit
	// KindInternal means the parser desynchronized from its own header
	// count. This indicates a bug, not bad input.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindMalformedStructure:
		return "malformed structure"
	case KindUnexpectedEOF:
		return "unexpected eof"
	case KindTriangleCountMismatch:
		return "triangle count mismatch"
	case KindResourceLimit:
		return "resource limit exceeded"
	case KindInternal:
		return "internal error"
	}
	return "unknown"
}

// Error is a terminal parse failure, classified precisely enough for the
// caller to report and skip the file. Location fields are populated where
// they apply: Line for textual input (1-based), Offset for binary input.
type Error struct {
	Kind     Kind
	Line     int
	Offset   int64
	Declared int // KindTriangleCountMismatch: header record count
	Actual   int // KindTriangleCountMismatch: complete records present
	Detail   string
	Err      error // underlying cause, KindIO only
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("parse: %s: %v", e.Detail, e.Err)
	case KindUnexpectedEOF:
		return fmt.Sprintf("parse: unexpected end of input at offset %d: %s", e.Offset, e.Detail)
	case KindTriangleCountMismatch:
		return fmt.Sprintf("parse: header declares %d triangles but data holds %d complete records (offset %d): %s",
			e.Declared, e.Actual, e.Offset, e.Detail)
	case KindMalformedStructure:
		if e.Line > 0 {
			return fmt.Sprintf("parse: line %d: %s", e.Line, e.Detail)
		}
		return fmt.Sprintf("parse: %s", e.Detail)
	}
	return fmt.Sprintf("parse: %s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err. The second result is false
// when err did not originate from a parse.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a parse failure of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
