// Package domain contains the core business entities and rules for the
// legal question-answering pipeline: documents and their extracted
// metadata, retrieval predicates and results, conversations, sync
// reports, and the immutable pipeline settings.
//
// This package has no dependencies on infrastructure and defines the
// vocabulary shared by all ports and services.
package domain
