// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the vector index, the text-generation
// service, the embedding service, the corpus and conversation stores,
// and the pluggable tag extractor.
package driven
