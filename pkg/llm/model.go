package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/internal/types"
)

// modelCheckTimeout covers Ollama loading the weights into memory.
const modelCheckTimeout = 2 * time.Minute

// Model is the loaded generator and tokenizer pair. It holds no per-call
// state and is shared by the Summarizer and Answerer.
type Model struct {
	generator      types.Generator
	tokenizer      types.Tokenizer
	maxInputTokens int
	logger         logger.Logger
}

func NewModel(generator types.Generator, tokenizer types.Tokenizer, maxInputTokens int, log logger.Logger) *Model {
	if maxInputTokens <= 0 {
		maxInputTokens = DefaultMaxInputTokens
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Model{
		generator:      generator,
		tokenizer:      tokenizer,
		maxInputTokens: maxInputTokens,
		logger:         log,
	}
}

// Load builds the tokenizer and Ollama-backed generator from config and checks
// that the model answers. Any failure here is an initialization failure.
func Load(config types.LLMConfig, log logger.Logger) (*Model, error) {
	tok, err := LoadTokenizer(config.TokenizerPath)
	if err != nil {
		return nil, err
	}

	gen, err := NewGeneratorWithConfig(GeneratorConfig{
		Model:   config.Model,
		BaseURL: config.BaseURL,
		Seed:    config.Seed,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), modelCheckTimeout)
	defer cancel()
	if err := gen.CheckModel(ctx); err != nil {
		return nil, err
	}

	return NewModel(gen, tok, config.MaxInputTokens, log), nil
}

// run truncates the prompt to the input bound, generates, and cleans output.
func (m *Model) run(ctx context.Context, prompt string, params types.GenerationParams) (string, int, error) {
	input, dropped, err := m.tokenizer.Truncate(prompt, m.maxInputTokens)
	if err != nil {
		return "", 0, err
	}

	out, err := m.generator.Generate(ctx, input, params)
	if err != nil {
		return "", dropped, err
	}

	return CleanOutput(out), dropped, nil
}

// Summarizer maps one chunk to a short abstractive summary.
type Summarizer struct {
	model *Model
}

func NewSummarizer(model *Model) *Summarizer {
	return &Summarizer{model: model}
}

func (s *Summarizer) Summarize(ctx context.Context, chunk string) (string, error) {
	summary, dropped, err := s.model.run(ctx, SummaryPrompt(chunk), SummaryParams)
	if err != nil {
		return "", fmt.Errorf("summarize chunk: %w", err)
	}
	if dropped > 0 {
		s.model.logger.Debug(ctx, "summary prompt truncated by %d tokens", dropped)
	}

	return summary, nil
}

// Answerer answers questions with a notes document as the only context.
type Answerer struct {
	model *Model
}

func NewAnswerer(model *Model) *Answerer {
	return &Answerer{model: model}
}

func (a *Answerer) Answer(ctx context.Context, notes, question string) (string, error) {
	answer, dropped, err := a.model.run(ctx, AnswerPrompt(notes, question), AnswerParams)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	// The question sits at the end of the prompt, so it is the first thing lost.
	if dropped > 0 {
		a.model.logger.Warn(ctx, "answer prompt truncated by %d tokens; question may be cut", dropped)
	}

	return answer, nil
}
