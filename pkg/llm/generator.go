package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/xhad/vidnotes/internal/types"
)

// GeneratorConfig represents the configuration for a generation backend.
type GeneratorConfig struct {
	Model   string
	BaseURL string // Ollama server URL
	Seed    int
}

// Generator runs prompts against an LLM served by Ollama.
type Generator struct {
	config GeneratorConfig
	llm    llms.Model
}

// NewGeneratorWithConfig creates a Generator backed by Ollama.
func NewGeneratorWithConfig(config GeneratorConfig) (*Generator, error) {
	if config.Model == "" {
		config.Model = "flan-t5-base"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return NewGenerator(llm, config), nil
}

// NewGenerator wraps an already constructed langchaingo model.
func NewGenerator(llm llms.Model, config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		llm:    llm,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string, params types.GenerationParams) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOptions(params, g.config.Seed)...)
	if err != nil {
		return "", fmt.Errorf("generation error: %w", err)
	}

	return out, nil
}

// CheckModel runs a one-token generation so a missing or unpullable model
// fails at load time instead of on the first real call.
func (g *Generator) CheckModel(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, g.llm, "ping",
		llms.WithMaxTokens(1),
		llms.WithTemperature(0),
	)
	if err != nil {
		return fmt.Errorf("model %s is not available at %s: %w", g.config.Model, g.config.BaseURL, err)
	}

	return nil
}

// callOptions maps seq2seq decoding params onto langchaingo call options.
// Ollama has no beam search or length penalty, so NumBeams, LengthPenalty and
// EarlyStopping are not sent; decoding at temperature 0 with a fixed seed
// keeps output deterministic.
func callOptions(params types.GenerationParams, seed int) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithTemperature(0),
		llms.WithSeed(seed),
		llms.WithN(1),
	}
	if params.MaxNewTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxNewTokens))
	}

	return opts
}
