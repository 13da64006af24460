package model

import "sort"

// IdentityDelta describes how often one identity occurred in two runs.
type IdentityDelta struct {
	Identity string `json:"identity"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
}

// Comparison lists the identities that appeared, disappeared or changed
// count between two runs of the same report.
type Comparison struct {
	Added    []IdentityDelta `json:"added"`
	Resolved []IdentityDelta `json:"resolved"`
	Changed  []IdentityDelta `json:"changed"`
}

// HasChanges reports whether the runs differ at all.
func (c Comparison) HasChanges() bool {
	return len(c.Added)+len(c.Resolved)+len(c.Changed) > 0
}

// CompareIdentityCounts compares per-identity counts of an older run
// (before) with a newer one (after). Each list is sorted by identity.
func CompareIdentityCounts(before, after map[string]int) Comparison {
	c := Comparison{
		Added:    make([]IdentityDelta, 0),
		Resolved: make([]IdentityDelta, 0),
		Changed:  make([]IdentityDelta, 0),
	}

	for id, n := range after {
		prev, ok := before[id]
		switch {
		case !ok:
			c.Added = append(c.Added, IdentityDelta{Identity: id, After: n})
		case prev != n:
			c.Changed = append(c.Changed, IdentityDelta{Identity: id, Before: prev, After: n})
		}
	}
	for id, n := range before {
		if _, ok := after[id]; !ok {
			c.Resolved = append(c.Resolved, IdentityDelta{Identity: id, Before: n})
		}
	}

	for _, list := range [][]IdentityDelta{c.Added, c.Resolved, c.Changed} {
		sort.Slice(list, func(i, j int) bool { return list[i].Identity < list[j].Identity })
	}
	return c
}

// IdentityCounts returns how often each identity occurs in the summary.
func (s *Summary) IdentityCounts() map[string]int {
	counts := make(map[string]int, len(s.Groups))
	for _, g := range s.Groups {
		counts[g.Identity] = g.Count
	}
	return counts
}
