// Package lang holds the registry of languages locstats knows how to count:
// their official names, file extensions and comment delimiters.
package lang

import (
	"sort"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrInvalidSpec is returned when a language definition cannot be used.
var ErrInvalidSpec = errors.NewKind("invalid language %q: %s")

// BlockComment is a comment delimited by distinct open and close markers.
type BlockComment struct {
	Open  string
	Close string
}

// CommentSyntax describes how comments are written in a language. Line is
// empty when the language has no single-line comments. Blocks are tried in
// order and the first matching opener wins.
type CommentSyntax struct {
	Line   string
	Blocks []BlockComment
}

// Spec identifies a language.
type Spec struct {
	Key        string
	Name       string
	Extensions []string
	Comments   CommentSyntax
}

// Validate reports whether the spec can be used for discovery and counting.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return ErrInvalidSpec.New(s.Key, "empty key")
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidSpec.New(s.Key, "empty name")
	}
	if len(s.Extensions) == 0 {
		return ErrInvalidSpec.New(s.Key, "no extensions")
	}
	for _, ext := range s.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			return ErrInvalidSpec.New(s.Key, "extension "+ext+" must start with a dot")
		}
	}
	for _, block := range s.Comments.Blocks {
		if block.Open == "" || block.Close == "" {
			return ErrInvalidSpec.New(s.Key, "block comment markers cannot be empty")
		}
	}
	return nil
}

// Registry maps language keys to their specs. It is never mutated after
// construction.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry builds a registry from specs, keyed by Spec.Key.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec, len(specs))}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		r.specs[spec.Key] = spec
	}
	return r, nil
}

// Lookup returns the spec registered under name. Keys are case-sensitive,
// like the command line argument they come from.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns every registered key in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns every registered spec sorted by key.
func (r *Registry) Specs() []Spec {
	names := r.Names()
	out := make([]Spec, 0, len(names))
	for _, name := range names {
		out = append(out, r.specs[name])
	}
	return out
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.specs)
}

// With returns a copy of the registry extended with specs. A spec whose key
// is already registered replaces the existing entry.
func (r *Registry) With(specs ...Spec) (*Registry, error) {
	merged := make([]Spec, 0, len(r.specs)+len(specs))
	for _, spec := range r.specs {
		merged = append(merged, spec)
	}
	merged = append(merged, specs...)
	return NewRegistry(merged...)
}
