// Package search defines the semantic retrieval surface consumed by the
// answer pipeline. The pipeline only needs "give me the k most relevant
// corpus chunks for this question"; how they are found is up to the
// implementation.
package search

import "context"

// Chunk is one retrieved piece of corpus text together with the metadata it
// was indexed with. Metadata always carries "type" and "source".
type Chunk struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Searcher finds the k chunks most relevant to a natural language query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
}
