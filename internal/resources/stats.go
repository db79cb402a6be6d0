package resources

import (
	"strconv"

	"github.com/agentic-research/scribe/api"
)

// UniqueID returns base when no resource uses it, otherwise the first of
// base1, base2, ... that is free.
func UniqueID(existing []api.Resource, base string) string {
	used := make(map[string]bool, len(existing))
	for _, r := range existing {
		used[r.ID] = true
	}
	if !used[base] {
		return base
	}
	for n := 1; ; n++ {
		id := base + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

// Summarize counts resources by subject, level and type.
func Summarize(list []api.Resource) api.Stats {
	s := api.Stats{
		Total:     len(list),
		BySubject: make(map[string]int),
		ByLevel:   make(map[string]int),
		ByType:    make(map[string]int),
	}
	for _, r := range list {
		s.BySubject[r.Subject]++
		s.ByLevel[r.LevelKey]++
		s.ByType[r.TypeKey]++
		if r.HasVideo {
			s.WithVideo++
		}
		if r.PDFStatement != "" || r.PDFSolution != "" {
			s.WithPDFs++
		}
	}
	return s
}

// DuplicateIDs returns every id held by more than one resource, in order
// of first appearance.
func DuplicateIDs(list []api.Resource) []string {
	count := make(map[string]int, len(list))
	var order []string
	for _, r := range list {
		if count[r.ID] == 0 {
			order = append(order, r.ID)
		}
		count[r.ID]++
	}
	var out []string
	for _, id := range order {
		if count[id] > 1 {
			out = append(out, id)
		}
	}
	return out
}
