package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the legal corpus"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Outcome string         `json:"outcome"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one cited passage.
type SourceOutput struct {
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
	Content string `json:"content"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one registered corpus document.
type DocumentOutput struct {
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
}

// CorpusStatusOutput is the output schema for the corpus_status tool.
type CorpusStatusOutput struct {
	InSync         bool     `json:"in_sync"`
	Documents      int      `json:"documents"`
	IndexedSources int      `json:"indexed_sources"`
	IndexedChunks  int      `json:"indexed_chunks"`
	Unindexed      []string `json:"unindexed,omitempty"`
	Stale          []string `json:"stale,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed legal documents, with cited sources",
	}, s.handleAsk)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the documents registered in the legal corpus",
		}, s.handleListDocuments)
	}

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "corpus_status",
			Description: "Report corpus and index counters and any drift between them",
		}, s.handleCorpusStatus)
	}
}

// handleAsk handles the ask tool invocation. Each call is a fresh
// single-turn question; MCP clients carry their own conversation state.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Outcome: string(answer.Outcome),
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Source:  answer.Sources[i].Metadata.Source,
			ChunkID: answer.Sources[i].Metadata.ChunkID,
			Content: answer.Sources[i].Content,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			Source:     docs[i].Source,
			ChunkCount: docs[i].ChunkCount,
		}
	}

	return nil, output, nil
}

// handleCorpusStatus handles the corpus_status tool invocation.
func (s *Server) handleCorpusStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, CorpusStatusOutput, error) {
	report, err := s.ports.Sync.Report(ctx)
	if err != nil {
		return nil, CorpusStatusOutput{}, err
	}
	stats, err := s.ports.Sync.Stats(ctx)
	if err != nil {
		return nil, CorpusStatusOutput{}, err
	}

	return nil, CorpusStatusOutput{
		InSync:         report.InSync,
		Documents:      stats.Documents,
		IndexedSources: stats.IndexedSources,
		IndexedChunks:  stats.IndexedChunks,
		Unindexed:      report.Unindexed,
		Stale:          report.Stale,
	}, nil
}
