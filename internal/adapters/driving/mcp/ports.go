package mcp

import (
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. Single injection point.
type Ports struct {
	// Ask answers questions against the corpus.
	Ask driving.AskService

	// Document lists corpus documents.
	Document driving.DocumentService

	// Sync reports corpus/index drift.
	Sync driving.SyncService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Document and Sync only back optional inspection tools
	return nil
}
