package llm

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// HFTokenizer bounds prompts with the model's own tokenizer.json.
type HFTokenizer struct {
	tok *tokenizer.Tokenizer
}

func LoadTokenizer(path string) (*HFTokenizer, error) {
	if path == "" {
		return nil, fmt.Errorf("tokenizer path is required")
	}

	tok, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", path, err)
	}

	return &HFTokenizer{tok: tok}, nil
}

func (t *HFTokenizer) CountTokens(text string) (int, error) {
	encoding, err := t.tok.EncodeSingle(text, true)
	if err != nil {
		return 0, fmt.Errorf("tokenization failed: %w", err)
	}

	return len(encoding.GetIds()), nil
}

// Truncate keeps the first maxTokens tokens of text, special tokens included,
// and decodes them back to a prompt string.
func (t *HFTokenizer) Truncate(text string, maxTokens int) (string, int, error) {
	encoding, err := t.tok.EncodeSingle(text, true)
	if err != nil {
		return "", 0, fmt.Errorf("tokenization failed: %w", err)
	}

	ids := encoding.GetIds()
	if maxTokens <= 0 || len(ids) <= maxTokens {
		return text, 0, nil
	}

	return t.tok.Decode(ids[:maxTokens], true), len(ids) - maxTokens, nil
}
