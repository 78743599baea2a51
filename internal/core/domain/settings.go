package domain

import (
	"fmt"
	"time"
)

// Settings bounds and defaults.
const (
	MinChunkSize     = 100
	MaxChunkSize     = 2000
	DefaultChunkSize = 1000

	MinChunkOverlap     = 0
	MaxChunkOverlap     = 500
	DefaultChunkOverlap = 200

	DefaultTopK = 5

	// DefaultHistoryWindow is the number of exchange pairs the
	// reformulator may consider.
	DefaultHistoryWindow = 3

	// Temperature is fixed for this domain: reproducibility of a legal
	// answer is a correctness requirement, not a quality preference.
	Temperature = 0.0

	// DefaultCallTimeout bounds each external generation or index call.
	DefaultCallTimeout = 120 * time.Second
)

// Settings is the immutable pipeline configuration, constructed once
// per run by the composition root and threaded explicitly through
// component constructors. There is no ambient or mutable configuration
// state; a reconfiguration is a new Settings value.
type Settings struct {
	// ChunkSize is the chunk length in characters (100-2000).
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks in
	// characters (0-500, strictly less than ChunkSize).
	ChunkOverlap int

	// TopK is the maximum number of passages retrieved per query.
	TopK int

	// HistoryWindow is the number of recent exchange pairs used for
	// query reformulation.
	HistoryWindow int

	// CallTimeout bounds each external service call.
	CallTimeout time.Duration
}

// DefaultSettings returns the default pipeline configuration.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:     DefaultChunkSize,
		ChunkOverlap:  DefaultChunkOverlap,
		TopK:          DefaultTopK,
		HistoryWindow: DefaultHistoryWindow,
		CallTimeout:   DefaultCallTimeout,
	}
}

// Validate checks every bound. Settings failing validation must never
// reach the pipeline.
func (s Settings) Validate() error {
	if s.ChunkSize < MinChunkSize || s.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d out of range [%d, %d]",
			ErrInvalidInput, s.ChunkSize, MinChunkSize, MaxChunkSize)
	}
	if s.ChunkOverlap < MinChunkOverlap || s.ChunkOverlap > MaxChunkOverlap {
		return fmt.Errorf("%w: chunk overlap %d out of range [%d, %d]",
			ErrInvalidInput, s.ChunkOverlap, MinChunkOverlap, MaxChunkOverlap)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be strictly less than chunk size %d",
			ErrInvalidInput, s.ChunkOverlap, s.ChunkSize)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidInput, s.TopK)
	}
	if s.HistoryWindow <= 0 {
		return fmt.Errorf("%w: history window must be positive, got %d", ErrInvalidInput, s.HistoryWindow)
	}
	if s.CallTimeout <= 0 {
		return fmt.Errorf("%w: call timeout must be positive, got %s", ErrInvalidInput, s.CallTimeout)
	}
	return nil
}
