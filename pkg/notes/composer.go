package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/internal/models"
	"github.com/xhad/vidnotes/pkg/processor"
)

// ChunkSummarizer turns one transcript chunk into a summary.
type ChunkSummarizer interface {
	Summarize(ctx context.Context, chunk string) (string, error)
}

type ComposerConfig struct {
	ChunkSize  int
	OnProgress func(done, total int)
}

// Composer drives chunking and per-chunk summarization over a transcript.
type Composer struct {
	config     ComposerConfig
	processor  processor.Processor
	summarizer ChunkSummarizer
	logger     logger.Logger
}

func NewWithConfig(config ComposerConfig, summarizer ChunkSummarizer, log logger.Logger) *Composer {
	if log == nil {
		log = logger.Nop()
	}

	p := processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: config.ChunkSize})
	config.ChunkSize = p.ChunkSize()

	return &Composer{
		config:     config,
		processor:  p,
		summarizer: summarizer,
		logger:     log,
	}
}

// Compose summarizes every chunk in source order, one model call at a time,
// and joins the summaries into a notes body. A single failed chunk fails the
// whole document.
func (c *Composer) Compose(ctx context.Context, transcript string) (string, error) {
	return c.ComposeWithProgress(ctx, transcript, c.config.OnProgress)
}

// ComposeWithProgress is Compose reporting to onProgress instead of the
// configured callback.
func (c *Composer) ComposeWithProgress(ctx context.Context, transcript string, onProgress func(done, total int)) (string, error) {
	chunks := c.processor.Process(transcript)
	c.logger.Info(ctx, "composing notes from %d chunks (chunk size %d)", len(chunks), c.config.ChunkSize)

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := c.summarizer.Summarize(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)

		if onProgress != nil {
			onProgress(i+1, len(chunks))
		}
	}

	return strings.Join(summaries, models.NoteSeparator), nil
}
