package cli

import (
	"context"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
	lastHistory  []domain.Message
}

func (m *mockAskService) Ask(_ context.Context, question string, history []domain.Message) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastHistory = history
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockConversationService implements driving.ConversationService for
// testing.
type mockConversationService struct {
	conversation *domain.Conversation
	groups       []driving.ConversationGroup
	exported     []byte
	appended     []domain.Message
	renamed      string
	deleted      string
	err          error
}

func (m *mockConversationService) Create(context.Context) (*domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversation, nil
}

func (m *mockConversationService) Append(_ context.Context, _ string, msg domain.Message) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, msg)
	return nil
}

func (m *mockConversationService) Get(context.Context, string) (*domain.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversation, nil
}

func (m *mockConversationService) List(context.Context) ([]driving.ConversationGroup, error) {
	return m.groups, m.err
}

func (m *mockConversationService) Rename(_ context.Context, _, title string) error {
	m.renamed = title
	return m.err
}

func (m *mockConversationService) Export(context.Context, string, domain.ExportFormat) ([]byte, error) {
	return m.exported, m.err
}

func (m *mockConversationService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	chunks  int
	docs    []domain.RawDocument
	removed string
	err     error
}

func (m *mockDocumentService) Ingest(context.Context, string) (int, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, source string) (int, error) {
	m.removed = source
	return m.chunks, m.err
}

func (m *mockDocumentService) List(context.Context) ([]domain.RawDocument, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Rebuild(context.Context) (int, error) {
	return m.chunks, m.err
}

// mockSyncService implements driving.SyncService for testing.
type mockSyncService struct {
	report *domain.SyncReport
	stats  *driving.SyncStats
	err    error
}

func (m *mockSyncService) Report(context.Context) (*domain.SyncReport, error) {
	return m.report, m.err
}

func (m *mockSyncService) Stats(context.Context) (*driving.SyncStats, error) {
	return m.stats, m.err
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	ask  *mockAskService
	conv *mockConversationService
	doc  *mockDocumentService
	sync *mockSyncService
}

// setupTestServices installs mock services behind the package-level
// service variables so commands run without real adapters. The
// returned cleanup restores the previous state.
func setupTestServices() (*testServices, func()) {
	mocks := &testServices{
		ask: &mockAskService{
			answer: &domain.Answer{
				Text:    "Les honoraires sont fixés à 3 000 euros.",
				Outcome: domain.OutcomeAnswered,
				Sources: []domain.Chunk{
					{
						Content:  "Article 4. Les honoraires sont fixés à 3 000 euros.",
						Metadata: domain.Metadata{Source: "contrat_dupont.txt", ChunkID: 2},
					},
				},
				ReformulatedQuestion: "Quels sont les honoraires ?",
				Step:                 domain.LadderFullPredicate,
			},
		},
		conv: &mockConversationService{
			conversation: &domain.Conversation{
				ID:    "20250315_100000",
				Title: "Honoraires Dupont",
			},
		},
		doc: &mockDocumentService{
			chunks: 4,
			docs: []domain.RawDocument{
				{Source: "contrat_dupont.txt", ChunkCount: 4},
			},
		},
		sync: &mockSyncService{
			report: &domain.SyncReport{InSync: true},
			stats:  &driving.SyncStats{Documents: 1, IndexedChunks: 4, IndexedSources: 1},
		},
	}

	prevAsk, prevConv := askService, convService
	prevDoc, prevSync := docService, syncService
	askService = mocks.ask
	convService = mocks.conv
	docService = mocks.doc
	syncService = mocks.sync

	return mocks, func() {
		askService, convService = prevAsk, prevConv
		docService, syncService = prevDoc, prevSync
	}
}
