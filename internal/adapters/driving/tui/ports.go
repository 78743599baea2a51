// Package tui provides the interactive chat interface. It implements
// a driving adapter following hexagonal architecture principles.
package tui

import (
	"errors"

	"github.com/plaide-labs/plaide-cli/internal/core/ports/driving"
)

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("tui: ask service is required")

// ErrMissingConversationService is returned when the conversation
// service is not provided.
var ErrMissingConversationService = errors.New("tui: conversation service is required")

// Ports aggregates the driving port interfaces required by the chat
// interface. Single injection point.
type Ports struct {
	// Ask answers questions against the corpus.
	Ask driving.AskService

	// Conversation persists the exchange log.
	Conversation driving.ConversationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Conversation == nil {
		return ErrMissingConversationService
	}
	return nil
}
