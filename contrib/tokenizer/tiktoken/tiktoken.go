// Package tiktoken adapts the tiktoken-go codec to the corpus.Tokenizer
// interface, so document splitting can use real model token counts.
package tiktoken

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/krishiq/krishiq/corpus"
)

type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New resolves the codec for a model name ("gpt-4o", "text-embedding-3-small")
// or, failing that, an encoding name ("cl100k_base", "o200k_base").
func New(name string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		// try by encoding name
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	return &Tokenizer{enc: enc}, nil
}

func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Encode(text))
}

var _ corpus.Tokenizer = (*Tokenizer)(nil)
