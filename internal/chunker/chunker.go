// Package chunker provides fixed-size text splitting with overlap.
package chunker

import "github.com/plaide-labs/plaide-cli/internal/core/domain"

// Splitter cuts cleaned document text into overlapping windows.
// Boundaries are rune-based so accented characters are never split.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the window size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive windows in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave forward progress
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split cuts content into windows of at most chunkSize runes, each
// starting overlap runes before the previous window's end. Empty
// content yields no windows.
func (s *Splitter) Split(content string) []string {
	if content == "" {
		return nil
	}

	runes := []rune(content)
	total := len(runes)

	step := s.chunkSize - s.overlap
	segments := make([]string, 0, total/step+1)

	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		if end > total {
			end = total
		}
		segments = append(segments, string(runes[start:end]))
		if end == total {
			break
		}
	}

	return segments
}
