package driven

// Prompt names recognised by the PromptStore.
const (
	// PromptAnswer is the grounded-answer prompt. It takes the numbered
	// context block and the user question, and instructs the model to
	// answer only from the supplied context and to end with a
	// "[Sources: n, n]" marker listing the entries actually used.
	PromptAnswer = "answer"

	// PromptReformulate is the follow-up question rewrite prompt. It
	// takes the recent conversation context and the current question.
	PromptReformulate = "reformulate"

	// PromptTitle is the short conversation title prompt. It takes the
	// first user question.
	PromptTitle = "title"
)

// PromptStore loads prompt templates by name.
// Implementations may read user-editable files with embedded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
