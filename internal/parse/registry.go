package parse

import (
	"fmt"
	"sort"
)

// Registry maps format tags to parser implementations. It is built once at
// startup and read-only afterwards, so it may be shared by reference
// across concurrent parses without synchronization. Adding a future format
// means registering one more entry; nothing else changes.
type Registry struct {
	parsers map[Format]Parser
}

// NewRegistry copies entries into an immutable table.
func NewRegistry(entries map[Format]Parser) *Registry {
	m := make(map[Format]Parser, len(entries))
	for f, p := range entries {
		m[f] = p
	}
	return &Registry{parsers: m}
}

// Resolve returns the parser registered for f.
func (r *Registry) Resolve(f Format) (Parser, error) {
	p, ok := r.parsers[f]
	if !ok {
		return nil, &Error{
			Kind:   KindUnsupportedFormat,
			Detail: fmt.Sprintf("no parser registered for %q", f),
		}
	}
	return p, nil
}

// Formats lists the registered tags in stable order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.parsers))
	for f := range r.parsers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extensions lists every file extension covered by a registered format,
// deduplicated and sorted.
func (r *Registry) Extensions() []string {
	seen := map[string]bool{}
	var out []string
	for f := range r.parsers {
		for _, ext := range f.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	sort.Strings(out)
	return out
}
