package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// historyExcerptLimit bounds each history message included in the
// reformulation prompt. Long answers carry full document extracts and
// would drown the actual conversational signal.
const historyExcerptLimit = 200

const reformulateMaxTokens = 256

// Reformulator rewrites a follow-up question into a self-contained one
// using recent conversation history, so that vector search is not asked
// to match pronouns and ellipses.
type Reformulator struct {
	generator driven.TextGenerator
	prompts   driven.PromptStore
	window    int
}

func NewReformulator(generator driven.TextGenerator, prompts driven.PromptStore, historyWindow int) *Reformulator {
	if historyWindow <= 0 {
		historyWindow = domain.DefaultHistoryWindow
	}
	return &Reformulator{generator: generator, prompts: prompts, window: historyWindow}
}

// Reformulate returns a standalone version of question. With no prior
// history the question is already standalone and is returned as is,
// without a model call. A generation failure is reported as
// domain.ErrReformulationFailed so the caller can fall back to the
// original question instead of aborting the turn.
func (r *Reformulator) Reformulate(ctx context.Context, question string, history []domain.Message) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	template, err := r.prompts.Load(driven.PromptReformulate)
	if err != nil {
		return "", fmt.Errorf("%w: loading prompt: %w", domain.ErrReformulationFailed, err)
	}

	prompt := strings.NewReplacer(
		"{history}", renderHistory(history, r.window),
		"{question}", question,
	).Replace(template)

	reformulated, err := r.generator.Complete(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   reformulateMaxTokens,
		Temperature: domain.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrReformulationFailed, err)
	}

	reformulated = strings.TrimSpace(reformulated)
	if reformulated == "" {
		return "", fmt.Errorf("%w: model returned an empty rewrite", domain.ErrReformulationFailed)
	}

	if reformulated != question {
		logger.Debug("reformulated %q into %q", question, reformulated)
	}
	return reformulated, nil
}

// renderHistory formats the last window exchanges (two messages per
// exchange) with French role labels, truncating each message so the
// prompt stays bounded regardless of answer length.
func renderHistory(history []domain.Message, window int) string {
	keep := window * 2
	if len(history) > keep {
		history = history[len(history)-keep:]
	}

	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := "Utilisateur"
		if msg.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(truncateRunes(msg.Content, historyExcerptLimit))
	}
	return b.String()
}

// truncateRunes cuts s to at most limit runes, never splitting a
// multi-byte character.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
