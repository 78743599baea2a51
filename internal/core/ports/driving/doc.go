// Package driving provides interfaces for user-facing adapters
// (primary/inbound ports): asking questions, managing conversations,
// ingesting documents, and checking corpus/index synchronisation.
package driving
