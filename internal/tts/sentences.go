package tts

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

// SplitSentences breaks text at sentence boundaries using a trained punkt
// tokenizer, so abbreviations, ellipses and terminator runs ("?!") do not
// produce spurious splits. Falls back to the whole text as one sentence if
// the tokenizer data cannot be loaded.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err == nil {
			tokenizer = t
		}
	})
	if tokenizer == nil {
		return []string{text}
	}

	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		if sent := strings.TrimSpace(s.Text); sent != "" {
			out = append(out, sent)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}
