package domain

import "sort"

// SyncReport compares the raw document identifier set against the
// indexed source set. It is derived, never persisted, and purely
// advisory: surfacing drift is the caller's responsibility, retrieval
// is not blocked on it.
type SyncReport struct {
	// InSync is true when both sets are equal.
	InSync bool

	// Unindexed are sources present in the corpus but absent from the
	// index (newly added, awaiting indexing).
	Unindexed []string

	// Stale are sources present in the index but absent from the corpus
	// (removed documents whose chunks still linger).
	Stale []string

	// CorpusCount is the raw document count.
	CorpusCount int

	// IndexedCount is the distinct indexed source count.
	IndexedCount int
}

// CompareSources builds a SyncReport from the two identifier sets.
// The comparison mutates nothing; result slices are sorted for stable
// display.
func CompareSources(corpus, indexed []string) SyncReport {
	corpusSet := make(map[string]struct{}, len(corpus))
	for _, s := range corpus {
		corpusSet[s] = struct{}{}
	}
	indexedSet := make(map[string]struct{}, len(indexed))
	for _, s := range indexed {
		indexedSet[s] = struct{}{}
	}

	report := SyncReport{
		CorpusCount:  len(corpusSet),
		IndexedCount: len(indexedSet),
	}

	for s := range corpusSet {
		if _, ok := indexedSet[s]; !ok {
			report.Unindexed = append(report.Unindexed, s)
		}
	}
	for s := range indexedSet {
		if _, ok := corpusSet[s]; !ok {
			report.Stale = append(report.Stale, s)
		}
	}

	sort.Strings(report.Unindexed)
	sort.Strings(report.Stale)
	report.InSync = len(report.Unindexed) == 0 && len(report.Stale) == 0
	return report
}
