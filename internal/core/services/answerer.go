package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

const answerMaxTokens = 1024

// NoDocumentsAnswer is returned verbatim when the retrieval ladder
// comes back empty even unfiltered. The model is never asked to answer
// without supporting passages.
const NoDocumentsAnswer = "Je ne trouve pas cette information dans les documents disponibles. " +
	"Vérifiez que les documents concernés ont bien été ajoutés au corpus."

// Answerer drives one question-answering turn: reformulate, extract
// filters, retrieve with fallback, generate, attribute sources. It is
// the driving-port implementation behind the ask and chat commands.
type Answerer struct {
	extractor    driven.TagExtractor
	reformulator *Reformulator
	retriever    *Retriever
	generator    driven.TextGenerator
	prompts      driven.PromptStore
}

func NewAnswerer(
	extractor driven.TagExtractor,
	reformulator *Reformulator,
	retriever *Retriever,
	generator driven.TextGenerator,
	prompts driven.PromptStore,
) *Answerer {
	return &Answerer{
		extractor:    extractor,
		reformulator: reformulator,
		retriever:    retriever,
		generator:    generator,
		prompts:      prompts,
	}
}

// Ask answers question in the context of history.
//
// The reformulated question feeds filter extraction and retrieval; the
// generation prompt keeps the user's original wording. Reformulation
// failures degrade to the original question, retrieval and generation
// failures abort the turn.
func (a *Answerer) Ask(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	searchQuestion, err := a.reformulator.Reformulate(ctx, question, history)
	if err != nil {
		if !errors.Is(err, domain.ErrReformulationFailed) {
			return nil, err
		}
		logger.Warn("reformulation failed, searching with the original question: %v", err)
		searchQuestion = question
	}

	predicate := a.extractor.ExtractQuery(searchQuestion)
	if len(predicate) > 0 {
		logger.Debug("query filters: %v", predicate)
	}

	result, err := a.retriever.Retrieve(ctx, searchQuestion, predicate)
	if err != nil {
		return nil, err
	}

	if result.Empty() {
		logger.Info("retrieval exhausted all fallback steps, no passages found")
		return &domain.Answer{
			Text:                 NoDocumentsAnswer,
			Outcome:              domain.OutcomeNoDocuments,
			ReformulatedQuestion: searchQuestion,
			Step:                 result.Step,
		}, nil
	}

	passages := make([]domain.Chunk, len(result.Chunks))
	for i, sc := range result.Chunks {
		passages[i] = sc.Chunk
	}

	template, err := a.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return nil, fmt.Errorf("%w: loading prompt: %w", domain.ErrGenerationFailed, err)
	}
	prompt := strings.NewReplacer(
		"{context}", renderContext(passages),
		"{question}", question,
	).Replace(template)

	text, err := a.generator.Complete(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: domain.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	cleaned, cited := ExtractCitations(strings.TrimSpace(text), passages)
	return &domain.Answer{
		Text:                 cleaned,
		Sources:              cited,
		Outcome:              domain.OutcomeAnswered,
		ReformulatedQuestion: searchQuestion,
		Step:                 result.Step,
	}, nil
}

// renderContext numbers the retrieved passages from 1 so the model can
// reference them in its source marker.
func renderContext(passages []domain.Chunk) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Document %d ---\n", i+1)
		fmt.Fprintf(&b, "Source: %s (extrait %d)\n", p.Metadata.Source, p.Metadata.ChunkID)
		b.WriteString(p.Content)
	}
	return b.String()
}
