// Package html loads HTML files, stripping markup down to text.
package html

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)

	blockClose = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|tr|table|section|article|blockquote)>`)
	brTags     = regexp.MustCompile(`(?i)<(?:br|hr)\s*/?>`)
	allTags    = regexp.MustCompile(`(?s)<[^>]+>`)

	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Loader handles HTML documents.
type Loader struct{}

// New creates a new HTML loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the filename extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{"html", "htm"}
}

// Load strips markup and decodes entities, keeping block boundaries as
// newlines so chunking does not glue unrelated paragraphs together.
func (l *Loader) Load(data []byte) (string, error) {
	content := string(data)

	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = blockClose.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = stdhtml.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	if content == "" {
		return "", domain.ErrEmptyDocument
	}
	return content, nil
}
