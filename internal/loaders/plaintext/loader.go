// Package plaintext loads .txt and .md files as-is.
package plaintext

import (
	"strings"
	"unicode/utf8"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles plain-text documents.
type Loader struct{}

// New creates a new plain-text loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the filename extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{"txt", "md"}
}

// Load returns the file content as text. Invalid UTF-8 sequences are
// replaced rather than rejected; scanned exports often carry a few.
func (l *Loader) Load(data []byte) (string, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
