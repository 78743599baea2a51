package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// citationMarker matches the source marker the answer prompt asks the
// model to emit, e.g. "[Sources: 1, 3]" or "[Source: 2]". Matching is
// case-insensitive and tolerant of spacing.
var citationMarker = regexp.MustCompile(`(?i)\[sources?\s*:\s*([\d,\s]+)\]`)

// ExtractCitations resolves the source markers in a generated answer
// against the passages that were placed in the prompt context.
//
// Passages are numbered from 1 in prompt order. References outside that
// range are dropped without failing the answer. When the model emitted
// no marker at all, every passage is attributed, which over-reports
// rather than losing provenance. The returned text has all markers
// stripped.
func ExtractCitations(text string, passages []domain.Chunk) (string, []domain.Chunk) {
	matches := citationMarker.FindAllStringSubmatch(text, -1)

	cleaned := citationMarker.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(collapseBlankRuns(cleaned))

	if len(matches) == 0 {
		logger.Debug("citations: no marker in answer, attributing all %d passages", len(passages))
		return cleaned, passages
	}

	seen := make(map[int]bool)
	var cited []domain.Chunk
	for _, m := range matches {
		for _, field := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				continue
			}
			if n < 1 || n > len(passages) {
				logger.Debug("citations: reference %d out of range (1..%d), dropped", n, len(passages))
				continue
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			cited = append(cited, passages[n-1])
		}
	}
	return cleaned, cited
}

// collapseBlankRuns squeezes runs of spaces left behind by marker
// removal and trims trailing whitespace on each line.
func collapseBlankRuns(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
