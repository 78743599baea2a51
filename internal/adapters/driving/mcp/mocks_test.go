package mcp

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
}

func (m *mockAskService) Ask(_ context.Context, question string, _ []domain.Message) (*domain.Answer, error) {
	m.lastQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	docs []domain.RawDocument
	err  error
}

func (m *mockDocumentService) Ingest(context.Context, string) (int, error) { return 0, nil }

func (m *mockDocumentService) Remove(context.Context, string) (int, error) { return 0, nil }

func (m *mockDocumentService) List(context.Context) ([]domain.RawDocument, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Rebuild(context.Context) (int, error) { return 0, nil }

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
