package translator

import (
	"context"
	"strings"
)

// Dummy reverses the word order of every string. It accepts any locale pair,
// which makes translated output easy to spot in development and tests without
// calling a real vendor.
type Dummy struct{}

// NewDummy constructs the dummy backend.
func NewDummy() *Dummy {
	return &Dummy{}
}

// DisplayName identifies the backend.
func (d *Dummy) DisplayName() string {
	return "Dummy translator"
}

// CanTranslate always reports true.
func (d *Dummy) CanTranslate(string, string) bool {
	return true
}

// Translate reverses the words of each input string.
func (d *Dummy) Translate(_ context.Context, _, _ string, texts []string) (map[string]string, error) {
	out := make(map[string]string, len(texts))
	for _, text := range texts {
		words := strings.Fields(text)
		for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
			words[i], words[j] = words[j], words[i]
		}
		out[text] = strings.Join(words, " ")
	}
	return out, nil
}
