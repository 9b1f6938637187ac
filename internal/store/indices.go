package store

import "sort"

// userVisitTable stores, per user id, the time-ordered sequence of
// UserVisitEntry (C2). Reuses the generic table[] map+RWMutex: each
// load/save of a whole list is one lock acquisition, matching §5's
// "per-operation" atomicity contract — the mutate-then-save sequences
// in protocol.go are read-copy-write, not atomic across the pair.
type userVisitTable = table[[]UserVisitEntry]

// locationMarkTable stores, per location id, the unordered collection
// of LocationMarkEntry (C2).
type locationMarkTable = table[[]LocationMarkEntry]

// insertSorted inserts e into a list already sorted nondecreasing by
// VisitedAt, preserving that order (invariant 5) without a full
// re-sort — equivalent to sort-after-append for already-sorted input,
// per spec §9 "Sort strategy".
func insertSorted(list []UserVisitEntry, e UserVisitEntry) []UserVisitEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].VisitedAt > e.VisitedAt })
	list = append(list, UserVisitEntry{})
	copy(list[i+1:], list[i:])
	list[i] = e
	return list
}

// sortByVisitedAt stably re-sorts list nondecreasing by VisitedAt,
// required after any write that may change ordering (invariant 5).
func sortByVisitedAt(list []UserVisitEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].VisitedAt < list[j].VisitedAt
	})
}
