// Package diff compares the per-file counts of two recorded runs.
package diff

import "sort"

type Entry struct {
	Path  string `json:"path"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Delta int    `json:"delta"`
}

type Result struct {
	Added    []Entry `json:"added,omitempty"`
	Modified []Entry `json:"modified,omitempty"`
	Removed  []Entry `json:"removed,omitempty"`
	Delta    int     `json:"delta"`
}

func (r Result) Empty() bool {
	return len(r.Added)+len(r.Modified)+len(r.Removed) == 0
}

// CompareRuns reports how per-file counts changed from one run to another.
// Files whose count did not change are omitted.
func CompareRuns(from, to map[string]int) Result {
	result := Result{}
	for path, toLOC := range to {
		fromLOC, exists := from[path]
		if !exists {
			result.Added = append(result.Added, Entry{Path: path, To: toLOC, Delta: toLOC})
			result.Delta += toLOC
			continue
		}
		if fromLOC != toLOC {
			result.Modified = append(result.Modified, Entry{Path: path, From: fromLOC, To: toLOC, Delta: toLOC - fromLOC})
			result.Delta += toLOC - fromLOC
		}
	}
	for path, fromLOC := range from {
		if _, exists := to[path]; !exists {
			result.Removed = append(result.Removed, Entry{Path: path, From: fromLOC, Delta: -fromLOC})
			result.Delta -= fromLOC
		}
	}
	sortEntries(result.Added)
	sortEntries(result.Modified)
	sortEntries(result.Removed)
	return result
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}
