// Package stl implements the two on-disk STL representations: the textual
// facet grammar and the compact 50-byte-record binary layout. Both satisfy
// the parse.Parser capability and stream triangles one at a time; neither
// buffers tokens or records.
package stl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notashes/cadstream/internal/cad"
	"github.com/notashes/cadstream/internal/parse"
)

// ASCII decodes the textual STL grammar. Keywords are case-insensitive,
// runs of whitespace are insignificant, and errors cite 1-based line
// numbers.
type ASCII struct{}

func (ASCII) Name() string { return "stl-ascii" }

// Parse walks the token stream through the facet grammar:
//
//	solid <name>
//	  facet normal nx ny nz
//	    outer loop
//	      vertex x y z   (three times)
//	    endloop
//	  endfacet
//	endsolid <name>
//
// The solid and endsolid names are free text and ignored. Each facet is
// emitted as soon as its endfacet is consumed.
func (ASCII) Parse(data []byte, _ parse.Options, emit parse.EmitFunc) (int, error) {
	lx := &lexer{data: data, line: 1, scan: 1}

	kw, ok := lx.next()
	if !ok {
		return -1, malformed(lx.line, "empty input, expected %q header", "solid")
	}
	if !strings.EqualFold(kw, "solid") {
		return -1, malformed(lx.line, "expected %q header, got %q", "solid", kw)
	}
	lx.skipLine()

	for {
		kw, ok := lx.next()
		if !ok {
			return -1, malformed(lx.line, "missing %q before end of input", "endsolid")
		}
		switch {
		case strings.EqualFold(kw, "endsolid"):
			lx.skipLine()
			return -1, nil
		case strings.EqualFold(kw, "facet"):
			t, err := parseFacet(lx)
			if err != nil {
				return -1, err
			}
			if err := emit(t); err != nil {
				return -1, err
			}
		default:
			return -1, malformed(lx.line, "expected %q or %q, got %q", "facet", "endsolid", kw)
		}
	}
}

func parseFacet(lx *lexer) (cad.Triangle, error) {
	var t cad.Triangle

	if err := expect(lx, "normal"); err != nil {
		return t, err
	}
	n, err := parseVec(lx)
	if err != nil {
		return t, err
	}
	t.Normal = n

	if err := expect(lx, "outer"); err != nil {
		return t, err
	}
	if err := expect(lx, "loop"); err != nil {
		return t, err
	}
	for i := 0; i < 3; i++ {
		if err := expect(lx, "vertex"); err != nil {
			return t, err
		}
		v, err := parseVec(lx)
		if err != nil {
			return t, err
		}
		t.Vertices[i] = v
	}
	if err := expect(lx, "endloop"); err != nil {
		return t, err
	}
	if err := expect(lx, "endfacet"); err != nil {
		return t, err
	}
	return t, nil
}

func expect(lx *lexer, want string) error {
	tok, ok := lx.next()
	if !ok {
		return malformed(lx.line, "missing %q before end of input", want)
	}
	if !strings.EqualFold(tok, want) {
		return malformed(lx.line, "expected %q, got %q", want, tok)
	}
	return nil
}

// parseVec consumes three numeric tokens. A token that does not parse as a
// float is a structural error; finiteness is the validator's job.
func parseVec(lx *lexer) (cad.Vec3, error) {
	var v cad.Vec3
	for i := 0; i < 3; i++ {
		tok, ok := lx.next()
		if !ok {
			return v, malformed(lx.line, "missing coordinate before end of input")
		}
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return v, malformed(lx.line, "bad number %q", tok)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func malformed(line int, format string, args ...any) *parse.Error {
	return &parse.Error{
		Kind:   parse.KindMalformedStructure,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}

// lexer walks whitespace-separated tokens, remembering the line each token
// started on. After end of input, line still names the last consumed token,
// which is what truncation errors must cite.
type lexer struct {
	data []byte
	pos  int
	line int // line of the most recently returned token, 1-based
	scan int // line the scan position is on
}

func (l *lexer) next() (string, bool) {
	for l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		if l.data[l.pos] == '\n' {
			l.scan++
		}
		l.pos++
	}
	if l.pos >= len(l.data) {
		return "", false
	}
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) {
		l.pos++
	}
	l.line = l.scan
	return string(l.data[start:l.pos]), true
}

// skipLine discards the rest of the current line. Used for the free-text
// names on solid and endsolid.
func (l *lexer) skipLine() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '\n' {
			l.scan++
			return
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}
