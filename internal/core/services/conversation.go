package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// Title generation bounds. Messages short enough to be titles are used
// verbatim; everything else is summarised by the model and clamped.
const (
	titleVerbatimLimit = 30
	titleMaxLength     = 40
	titleMaxTokens     = 32
)

// conversationIDFormat derives IDs from the creation timestamp, which
// keeps files human-sortable on disk.
const conversationIDFormat = "20060102_150405"

// ConversationManager implements driving.ConversationService on top of
// a ConversationStore, with model-generated titles.
type ConversationManager struct {
	store     driven.ConversationStore
	generator driven.TextGenerator
	prompts   driven.PromptStore

	// now is swappable in tests.
	now func() time.Time

	// mu serialises writers per conversation. The store guarantees
	// atomic saves but not read-modify-write sequences.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// titleWG tracks in-flight title generations so callers can drain
	// them before exiting.
	titleWG sync.WaitGroup
}

var _ driving.ConversationService = (*ConversationManager)(nil)

func NewConversationManager(
	store driven.ConversationStore,
	generator driven.TextGenerator,
	prompts driven.PromptStore,
) *ConversationManager {
	return &ConversationManager{
		store:     store,
		generator: generator,
		prompts:   prompts,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (m *ConversationManager) lock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Create starts a new conversation with the placeholder title. When two
// conversations land on the same second, a numeric suffix keeps IDs
// unique.
func (m *ConversationManager) Create(ctx context.Context) (*domain.Conversation, error) {
	now := m.now()
	id := now.Format(conversationIDFormat)
	for n := 2; ; n++ {
		if _, err := m.store.Get(ctx, id); err != nil {
			break
		}
		id = fmt.Sprintf("%s_%d", now.Format(conversationIDFormat), n)
	}

	conv := &domain.Conversation{
		ID:        id,
		Title:     domain.PlaceholderTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []domain.Message{},
	}
	if err := m.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	logger.Debug("created conversation %s", id)
	return conv, nil
}

// Append adds msg to the conversation. Re-appending an already present
// message ID is a silent no-op. Once the first user/assistant exchange
// is complete, the placeholder title is replaced in the background.
func (m *ConversationManager) Append(ctx context.Context, id string, msg domain.Message) error {
	if !msg.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, msg.Role)
	}
	if msg.ID == "" {
		return fmt.Errorf("%w: message without ID", domain.ErrInvalidInput)
	}

	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	conv, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if conv.HasMessage(msg.ID) {
		logger.Debug("message %s already in conversation %s, skipping", msg.ID, id)
		return nil
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = m.now()
	if err := m.store.Save(ctx, conv); err != nil {
		return fmt.Errorf("appending to conversation %s: %w", id, err)
	}

	if conv.Title == domain.PlaceholderTitle && firstExchangeComplete(conv) {
		m.titleWG.Add(1)
		go func() {
			defer m.titleWG.Done()
			m.generateTitle(context.WithoutCancel(ctx), id, conv.FirstUserMessage())
		}()
	}
	return nil
}

// firstExchangeComplete reports whether the log holds at least one user
// message followed by an assistant message.
func firstExchangeComplete(conv *domain.Conversation) bool {
	seenUser := false
	for i := range conv.Messages {
		switch conv.Messages[i].Role {
		case domain.RoleUser:
			seenUser = true
		case domain.RoleAssistant:
			if seenUser {
				return true
			}
		}
	}
	return false
}

// generateTitle derives a title from the first question and persists
// it, unless the user renamed the conversation in the meantime.
func (m *ConversationManager) generateTitle(ctx context.Context, id, firstQuestion string) {
	title := m.deriveTitle(ctx, firstQuestion)
	if title == "" {
		return
	}

	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	conv, err := m.store.Get(ctx, id)
	if err != nil {
		logger.Warn("title generation: reloading conversation %s: %v", id, err)
		return
	}
	if conv.Title != domain.PlaceholderTitle {
		return
	}
	conv.Title = title
	if err := m.store.Save(ctx, conv); err != nil {
		logger.Warn("title generation: saving conversation %s: %v", id, err)
	}
}

// deriveTitle picks a short label for the first question. Short
// questions are kept verbatim; longer ones are summarised by the model,
// falling back to the leading words when the model is unavailable.
func (m *ConversationManager) deriveTitle(ctx context.Context, firstQuestion string) string {
	question := strings.TrimSpace(firstQuestion)
	if question == "" {
		return ""
	}
	if utf8.RuneCountInString(question) <= titleVerbatimLimit {
		return question
	}

	if title := m.modelTitle(ctx, question); title != "" {
		return title
	}

	words := strings.Fields(question)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ") + "..."
}

func (m *ConversationManager) modelTitle(ctx context.Context, question string) string {
	template, err := m.prompts.Load(driven.PromptTitle)
	if err != nil {
		logger.Warn("title generation: loading prompt: %v", err)
		return ""
	}
	prompt := strings.ReplaceAll(template, "{question}", question)

	title, err := m.generator.Complete(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   titleMaxTokens,
		Temperature: domain.Temperature,
	})
	if err != nil {
		logger.Warn("title generation: %v", err)
		return ""
	}

	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'«»`)
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if utf8.RuneCountInString(title) > titleMaxLength {
		title = truncateRunes(title, titleMaxLength-3) + "..."
	}
	return title
}

// Get returns the full conversation.
func (m *ConversationManager) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return m.store.Get(ctx, id)
}

// List groups summaries into recency buckets, newest-first. Empty
// buckets are omitted.
func (m *ConversationManager) List(ctx context.Context) ([]driving.ConversationGroup, error) {
	summaries, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	now := m.now()
	byBucket := make(map[domain.RecencyBucket][]domain.ConversationSummary)
	for _, s := range summaries {
		b := domain.BucketFor(s.UpdatedAt, now)
		byBucket[b] = append(byBucket[b], s)
	}

	var groups []driving.ConversationGroup
	for _, b := range domain.Buckets() {
		if list := byBucket[b]; len(list) > 0 {
			groups = append(groups, driving.ConversationGroup{Bucket: b, Conversations: list})
		}
	}
	return groups, nil
}

// Rename sets a user-chosen title and advances updated_at.
func (m *ConversationManager) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: empty title", domain.ErrInvalidInput)
	}

	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	conv, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	conv.Title = title
	conv.UpdatedAt = m.now()
	if err := m.store.Save(ctx, conv); err != nil {
		return fmt.Errorf("renaming conversation %s: %w", id, err)
	}
	return nil
}

// Export renders the conversation without mutating stored state.
func (m *ConversationManager) Export(ctx context.Context, id string, format domain.ExportFormat) ([]byte, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}

	conv, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch format {
	case domain.ExportJSON:
		return json.MarshalIndent(conv, "", "  ")
	case domain.ExportMarkdown:
		return renderMarkdown(conv), nil
	default:
		return renderText(conv), nil
	}
}

// Delete removes the conversation as a unit.
func (m *ConversationManager) Delete(ctx context.Context, id string) error {
	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
	return nil
}

// WaitTitles blocks until pending background title generations finish.
// CLI commands call it before exiting so short-lived processes do not
// leave placeholder titles behind.
func (m *ConversationManager) WaitTitles() {
	m.titleWG.Wait()
}

func renderText(conv *domain.Conversation) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", conv.Title)
	fmt.Fprintf(&b, "Créée le %s\n\n", conv.CreatedAt.Format("02/01/2006 15:04"))
	for _, msg := range conv.Messages {
		label := "Vous"
		if msg.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s : %s\n", label, msg.Content)
		if len(msg.Sources) > 0 {
			b.WriteString("Sources :\n")
			for _, src := range msg.Sources {
				fmt.Fprintf(&b, "  - %s (extrait %d)\n", src.Metadata.Source, src.Metadata.ChunkID)
			}
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func renderMarkdown(conv *domain.Conversation) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	fmt.Fprintf(&b, "_Créée le %s_\n\n", conv.CreatedAt.Format("02/01/2006 15:04"))
	for _, msg := range conv.Messages {
		label := "Vous"
		if msg.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "**%s :** %s\n\n", label, msg.Content)
		if len(msg.Sources) > 0 {
			b.WriteString("> Sources :\n")
			for _, src := range msg.Sources {
				fmt.Fprintf(&b, "> - `%s` (extrait %d)\n", src.Metadata.Source, src.Metadata.ChunkID)
			}
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}
