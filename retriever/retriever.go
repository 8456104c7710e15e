// Package retriever provides the default semantic searcher: documents are
// embedded into a vector store at index time, and queries are answered by
// nearest-neighbor search over those embeddings.
package retriever

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/krishiq/krishiq/corpus"
	"github.com/krishiq/krishiq/search"
	"github.com/krishiq/krishiq/vector"
)

// Config controls indexing and retrieval behaviour.
type Config struct {
	// TopK is the neighbor count used when Search is called with k <= 0.
	TopK int

	// MinScore drops hits whose cosine similarity to the query falls below
	// it. Zero disables the floor.
	MinScore float64

	// MaxChunkSize and ChunkOverlap shape how oversized documents are split
	// before embedding. Both count characters, or model tokens when a
	// Tokenizer is set.
	MaxChunkSize int
	ChunkOverlap int

	// Tokenizer switches splitting from character windows to model token
	// windows.
	Tokenizer corpus.Tokenizer
}

// Option customizes retriever config.
type Option func(*Config)

// WithTopK sets the default number of neighbors fetched per search.
func WithTopK(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.TopK = k
		}
	}
}

// WithMinScore sets the similarity floor below which hits are discarded.
func WithMinScore(score float64) Option {
	return func(cfg *Config) {
		if score > 0 {
			cfg.MinScore = score
		}
	}
}

// WithChunking sets the chunk size and overlap used to split oversized
// documents at index time.
func WithChunking(size, overlap int) Option {
	return func(cfg *Config) {
		if size > 0 {
			cfg.MaxChunkSize = size
		}
		if overlap >= 0 {
			cfg.ChunkOverlap = overlap
		}
	}
}

// WithTokenizer makes the splitter count the chunk budget in model tokens
// instead of characters.
func WithTokenizer(t corpus.Tokenizer) Option {
	return func(cfg *Config) {
		if t != nil {
			cfg.Tokenizer = t
		}
	}
}

// Retriever indexes corpus documents and serves semantic search over them.
// It implements search.Searcher.
type Retriever struct {
	store    vector.Store
	embedder vector.Embedder
	splitter *corpus.Splitter
	cfg      Config

	docCounter atomic.Int64
}

var _ search.Searcher = (*Retriever)(nil)

// New creates a retriever over the given store and embedder.
func New(store vector.Store, emb vector.Embedder, opts ...Option) *Retriever {
	cfg := Config{
		TopK:         5,
		MaxChunkSize: 1000,
		ChunkOverlap: 100,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	splitter := corpus.NewSplitter(cfg.MaxChunkSize, cfg.ChunkOverlap)
	if cfg.Tokenizer != nil {
		splitter = corpus.NewTokenSplitter(cfg.Tokenizer, cfg.MaxChunkSize, cfg.ChunkOverlap)
	}

	return &Retriever{
		store:    store,
		embedder: emb,
		splitter: splitter,
		cfg:      cfg,
	}
}

// Index embeds documents and stores them. Oversized documents are split into
// overlapping chunks; every chunk of a document carries the document's
// metadata, so retrieval round-trips provenance.
func (r *Retriever) Index(ctx context.Context, docs ...corpus.Document) error {
	if r.store == nil || r.embedder == nil {
		return fmt.Errorf("retriever not fully configured")
	}

	for _, doc := range docs {
		docID := fmt.Sprintf("doc_%d", r.docCounter.Add(1))
		pieces := r.splitter.Split(doc.Text)
		if len(pieces) == 0 {
			continue
		}

		vectors, err := r.embedder.EmbedBatch(ctx, pieces)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", docID, err)
		}
		if len(vectors) != len(pieces) {
			return fmt.Errorf("embed document %s: got %d vectors for %d chunks", docID, len(vectors), len(pieces))
		}

		entries := make([]*vector.Entry, len(pieces))
		for i, piece := range pieces {
			entries[i] = &vector.Entry{
				ID:       fmt.Sprintf("%s#%d", docID, i),
				Vector:   vectors[i],
				Text:     piece,
				Metadata: cloneMetadata(doc.Metadata),
			}
		}
		if err := r.store.Add(ctx, entries...); err != nil {
			return fmt.Errorf("store document %s: %w", docID, err)
		}
	}
	return nil
}

// Search embeds the query and returns the k most similar chunks, best first.
// k <= 0 selects the configured TopK.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]search.Chunk, error) {
	if r.store == nil || r.embedder == nil {
		return nil, fmt.Errorf("retriever not fully configured")
	}
	if k <= 0 {
		k = r.cfg.TopK
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	chunks := make([]search.Chunk, 0, len(hits))
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		if r.cfg.MinScore > 0 {
			if score := float64(vector.CosineSimilarity(queryVec, hit.Vector)); score < r.cfg.MinScore {
				continue
			}
		}
		chunks = append(chunks, search.Chunk{
			Text:     hit.Text,
			Metadata: anyMetadata(hit.Metadata),
		})
	}
	return chunks, nil
}

// Clear drops all indexed chunks.
func (r *Retriever) Clear(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	return r.store.Clear(ctx)
}

// Count returns the number of indexed chunks.
func (r *Retriever) Count(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	return r.store.Count(ctx)
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func anyMetadata(m map[string]string) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
