// Package csv loads CSV files as line-oriented text.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader handles CSV documents. Each record becomes one text line with
// fields joined by " | ", which keeps row context together inside a
// chunk.
type Loader struct{}

// New creates a new CSV loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the filename extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{"csv"}
}

// Load flattens CSV records into text.
func (l *Loader) Load(data []byte) (string, error) {
	reader := stdcsv.NewReader(strings.NewReader(string(data)))
	// Legal exports are rarely rectangular.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing CSV: %w", err)
	}

	var b strings.Builder
	for _, record := range records {
		line := strings.TrimSpace(strings.Join(record, " | "))
		if line == "" || strings.Trim(line, " |") == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
