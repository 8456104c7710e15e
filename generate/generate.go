// Package generate defines the text generation surface used to synthesize
// answers from retrieved context. Providers live under contrib/provider.
package generate

import (
	"context"
	"errors"
)

// ErrGeneration marks a provider failure. Providers wrap API errors with it
// so callers can recover locally instead of failing the whole query.
var ErrGeneration = errors.New("generation failed")

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
