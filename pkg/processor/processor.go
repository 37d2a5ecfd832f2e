package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/xhad/vidnotes/internal/types"
)

// DefaultChunkSize is the chunk length target in characters.
const DefaultChunkSize = 1200

const sentenceDelimiter = ". "

type ProcessorConfig = types.ProcessorConfig

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}

	return Processor{
		config: config,
	}
}

func (p Processor) ChunkSize() int {
	return p.config.ChunkSize
}

// Process splits a transcript into chunks of the configured size.
func (p Processor) Process(text string) []string {
	return Chunk(text, p.config.ChunkSize)
}

// Chunk greedily packs ". "-separated sentences into chunks shorter than
// maxChunkSize characters. A sentence that alone reaches the limit becomes its
// own chunk unsplit, so the bound is a target rather than a guarantee.
// A multi-sentence chunk can come out at exactly maxChunkSize once the
// trailing ". " is trimmed.
func Chunk(text string, maxChunkSize int) []string {
	var chunks []string

	currentChunk := strings.Builder{}
	currentLen := 0

	for _, sentence := range strings.Split(text, sentenceDelimiter) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		sentenceLen := utf8.RuneCountInString(sentence)

		if currentLen+sentenceLen >= maxChunkSize && currentLen > 0 {
			if chunk := strings.TrimSpace(currentChunk.String()); chunk != "" {
				chunks = append(chunks, chunk)
			}
			currentChunk.Reset()
			currentLen = 0
		}

		currentChunk.WriteString(sentence)
		currentChunk.WriteString(sentenceDelimiter)
		currentLen += sentenceLen + len(sentenceDelimiter)
	}

	if chunk := strings.TrimSpace(currentChunk.String()); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}
