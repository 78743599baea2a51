package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and let callers tell
// "degrade and continue" apart from "abort this turn".
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown loader or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyDocument indicates a document contains no usable text.
	ErrEmptyDocument = errors.New("empty document")

	// ErrGenerationFailed indicates the text-generation service errored
	// or timed out while producing the answer. This aborts the turn;
	// an answer is never fabricated.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrReformulationFailed indicates the reformulation call failed.
	// This is recoverable: the caller retries the turn with the
	// original, unreformulated question.
	ErrReformulationFailed = errors.New("reformulation failed")

	// ErrIndexUnavailable indicates the vector index errored or timed
	// out. Retrieval for the turn fails; the fallback ladder is the
	// only retry mechanism at this layer.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrGeneratorUnavailable indicates the generation service is not
	// configured.
	ErrGeneratorUnavailable = errors.New("generation service unavailable")

	// ErrConversationCorrupt indicates a conversation record could not
	// be parsed. Corruption of one conversation never affects another.
	ErrConversationCorrupt = errors.New("conversation corrupt")
)
