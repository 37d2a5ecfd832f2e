package llm

import (
	"fmt"

	"github.com/xhad/vidnotes/internal/types"
)

const (
	summaryTemplate = "Summarize the following text clearly:\n%s"
	answerTemplate  = "Read the context and answer the question.\n\nContext: %s\n\nQuestion: %s\n\nAnswer:"
)

// DefaultMaxInputTokens is the encoder input bound; longer prompts are cut.
const DefaultMaxInputTokens = 1024

var (
	// SummaryParams decode each chunk summary with beam search.
	SummaryParams = types.GenerationParams{
		NumBeams:      4,
		MaxNewTokens:  120,
		LengthPenalty: 1.0,
		EarlyStopping: true,
	}

	// AnswerParams decode answers greedily.
	AnswerParams = types.GenerationParams{
		NumBeams:     1,
		MaxNewTokens: 100,
	}
)

func SummaryPrompt(chunk string) string {
	return fmt.Sprintf(summaryTemplate, chunk)
}

func AnswerPrompt(context, question string) string {
	return fmt.Sprintf(answerTemplate, context, question)
}
