package domain

// FilterPredicate is an exact-match constraint over chunk metadata,
// built from a user question. It narrows the candidate set before
// similarity ranking. An empty predicate means no constraint.
type FilterPredicate map[string]string

// WithoutPerson returns a copy of the predicate with the personne key
// removed. The receiver is not modified.
func (p FilterPredicate) WithoutPerson() FilterPredicate {
	if len(p) == 0 {
		return FilterPredicate{}
	}
	out := make(FilterPredicate, len(p))
	for k, v := range p {
		if k == MetaPerson {
			continue
		}
		out[k] = v
	}
	return out
}

// HasPerson returns true if the predicate constrains the personne key.
func (p FilterPredicate) HasPerson() bool {
	_, ok := p[MetaPerson]
	return ok
}

// Equal reports whether two predicates constrain the same keys to the
// same values.
func (p FilterPredicate) Equal(other FilterPredicate) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if other[k] != v {
			return false
		}
	}
	return true
}

// ScoredChunk is a retrieved chunk with its relevance score.
type ScoredChunk struct {
	// Chunk is the retrieved passage.
	Chunk Chunk

	// Score is the similarity score, higher is more relevant.
	Score float64
}

// LadderStep identifies which step of the fallback ladder produced a
// retrieval result.
type LadderStep int

// Fallback ladder steps, strictly ordered. Each step's effective
// predicate is a subset of the previous step's.
const (
	// LadderFullPredicate queried with all extracted keys.
	LadderFullPredicate LadderStep = 1

	// LadderNoPerson dropped the personne key only.
	LadderNoPerson LadderStep = 2

	// LadderUnfiltered dropped all keys.
	LadderUnfiltered LadderStep = 3
)

// RetrievalResult is the ordered outcome of a retrieval, newest
// relevance first, length bounded by the configured top-K. Empty is a
// valid outcome meaning "no relevant documents", not a fault.
type RetrievalResult struct {
	// Chunks are the retrieved passages in descending relevance order.
	Chunks []ScoredChunk

	// Step is the ladder step that produced the result. For an empty
	// result this is the last step attempted.
	Step LadderStep

	// Predicate is the effective predicate of that step.
	Predicate FilterPredicate
}

// Empty returns true if no passages were retrieved.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// AnswerOutcome distinguishes how a turn concluded.
type AnswerOutcome string

// Turn outcomes.
const (
	// OutcomeAnswered is a grounded answer with validated citations.
	OutcomeAnswered AnswerOutcome = "answered"

	// OutcomeNoDocuments means the ladder exhausted with no passages.
	OutcomeNoDocuments AnswerOutcome = "no_documents"
)

// Answer is the validated result of one question turn.
type Answer struct {
	// Text is the cleaned answer with the citation marker stripped.
	Text string

	// Sources are the passages the model actually cited, resolved and
	// deduplicated in citation order. Never contains a passage that was
	// not presented to the model.
	Sources []Chunk

	// Outcome reports how the turn concluded.
	Outcome AnswerOutcome

	// ReformulatedQuestion is the self-contained question used for
	// retrieval. Equal to the original when no reformulation ran.
	ReformulatedQuestion string

	// Step is the fallback ladder step that produced the context.
	Step LadderStep
}
