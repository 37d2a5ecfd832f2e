package llm

import (
	"regexp"
	"strings"
)

// controlTokenRE matches the T5 family's special tokens.
var controlTokenRE = regexp.MustCompile(`<pad>|</s>|<s>|<unk>|<extra_id_\d+>`)

// CleanOutput strips model control tokens from generated text.
func CleanOutput(text string) string {
	text = controlTokenRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
