package types

import (
	"context"
	"time"

	"github.com/xhad/vidnotes/internal/models"
)

// Core interfaces

// Generator runs one prompt through a text generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// Tokenizer bounds model input. Truncate drops tokens past maxTokens without
// reporting an error and returns how many were dropped.
type Tokenizer interface {
	CountTokens(text string) (int, error)
	Truncate(text string, maxTokens int) (string, int, error)
}

type TranscriptSource interface {
	FetchTranscript(ctx context.Context, videoID string) (models.Transcript, error)
}

// Assistant is the surface the interaction layer talks to.
type Assistant interface {
	SummarizeVideo(ctx context.Context, transcript string) (string, error)
	SummarizeVideoWithProgress(ctx context.Context, transcript string, onProgress func(done, total int)) (string, error)
	AnswerQuestion(ctx context.Context, notes, question string) (string, error)
}

type NotesStore interface {
	Get(ctx context.Context, videoID string) (models.NotesDocument, bool, error)
	Put(ctx context.Context, doc models.NotesDocument) error
	Close()
}

// GenerationParams mirrors the decoding knobs of a seq2seq generate call.
type GenerationParams struct {
	NumBeams      int
	MaxNewTokens  int
	LengthPenalty float64
	EarlyStopping bool
}

type ProcessorConfig struct {
	ChunkSize int
}

type LLMConfig struct {
	BaseURL        string
	Model          string
	TokenizerPath  string
	MaxInputTokens int
	Seed           int
}

type YouTubeConfig struct {
	BaseURL   string
	RateLimit float64 // requests per second
	Timeout   time.Duration
	Languages []string
}

type StoreConfig struct {
	Driver    string
	URL       string
	TableName string
}
