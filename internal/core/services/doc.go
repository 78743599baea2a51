// Package services implements the core business logic of the
// question-answering pipeline: tag extraction, query reformulation,
// filtered retrieval with the fallback ladder, grounded answer
// generation, citation validation, conversation management, document
// ingestion and sync reporting.
//
// Services receive their collaborators through constructor injection
// and depend only on domain types and ports, never on adapters.
package services
