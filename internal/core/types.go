package core

import "github.com/kokkonisd/locstats/internal/lang"

type Request struct {
	Language string
	Dirs     []string
	Strict   bool
}

// FileCount is the contribution of one discovered file. Err is set when
// the file could not be read, in which case LOC is zero.
type FileCount struct {
	Path   string
	LOC    int
	Size   int64
	Cached bool
	Err    error
}

type Result struct {
	Language lang.Spec
	Strict   bool
	Dirs     []string
	Total    int
	Files    []FileCount
	Missing  []string
}

func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Counts maps each counted file to its LOC, skipping unreadable files.
func (r *Result) Counts() map[string]int {
	out := make(map[string]int, len(r.Files))
	for _, f := range r.Files {
		if f.Err == nil {
			out[f.Path] += f.LOC
		}
	}
	return out
}
