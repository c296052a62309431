// Package chunker provides a fixed-size, overlapping text chunker.
//
// Sizes and offsets are counted in Unicode code points, so a chunk never
// splits a multi-byte character.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into fixed-size chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
// Zero keeps the default; negative values are rejected by Process.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size != 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Process splits content into chunks belonging to documentID.
// Chunk indices are the 0-based positions in the produced sequence.
func (p *Processor) Process(documentID, content string) ([]domain.Chunk, error) {
	parts, err := Split(content, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Index:      i,
			Content:    part,
		}
	}
	return chunks, nil
}

// Validate checks chunking parameters.
func Validate(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidInput, chunkSize, overlap)
	}
	return nil
}

// Split cuts text into windows of chunkSize characters. Each window after
// the first starts overlap characters before the previous one ended. The
// window reaching the end of the text is the last one.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if err := Validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	n := len(runes)

	chunks := make([]string, 0, n/(chunkSize-overlap)+1)
	start := 0
	for {
		end := min(start+chunkSize, n)
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
		start = end - overlap
	}

	return chunks, nil
}
