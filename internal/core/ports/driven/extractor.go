package driven

import "github.com/plaide-labs/plaide-cli/internal/core/domain"

// TagExtractor derives structured tags from raw text. It is a stable
// seam: the default implementation is string-pattern based, but it can
// be swapped for a model-based extractor without touching the pipeline.
// Extraction never fails: absent signals yield absent fields, which
// is valid partial metadata.
type TagExtractor interface {
	// ExtractDocument derives full metadata for one chunk of a source
	// document, scanning the identifier first and the content second.
	ExtractDocument(source, content string, chunkID int) domain.Metadata

	// ExtractQuery derives a filter predicate from a user question
	// using the same tag vocabulary. Zero, one or both of the type_doc
	// and personne keys may be present. Dates are never used as query
	// filters.
	ExtractQuery(question string) domain.FilterPredicate
}
