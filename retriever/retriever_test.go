package retriever

import (
	"context"
	"strings"
	"testing"

	"github.com/krishiq/krishiq/contrib/vector/memory"
	"github.com/krishiq/krishiq/corpus"
	"github.com/krishiq/krishiq/vector"
)

func TestIndexAndSearch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := New(store, termEmbedder{})

	docs := []corpus.Document{
		{Text: "rice production in Maharashtra", Metadata: map[string]string{"type": "crop_production", "source": "agri.csv"}},
		{Text: "wheat production in Punjab", Metadata: map[string]string{"type": "crop_production", "source": "agri.csv"}},
		{Text: "climate summary for Pune", Metadata: map[string]string{"type": "climate_overview", "source": "climate.csv"}},
	}
	if err := r.Index(ctx, docs...); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("Count() = %d, want 3", count)
	}

	chunks, err := r.Search(ctx, "rice yield", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "rice") {
		t.Errorf("best chunk = %q, want the rice document", chunks[0].Text)
	}
	if got := chunks[0].Metadata["type"]; got != "crop_production" {
		t.Errorf("metadata type = %v, want crop_production", got)
	}
	if got := chunks[0].Metadata["source"]; got != "agri.csv" {
		t.Errorf("metadata source = %v, want agri.csv", got)
	}
}

func TestSearchDefaultTopK(t *testing.T) {
	ctx := context.Background()
	r := New(memory.NewStore(), termEmbedder{}, WithTopK(2))

	var docs []corpus.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, corpus.Document{Text: "rice notes"})
	}
	if err := r.Index(ctx, docs...); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	chunks, err := r.Search(ctx, "rice", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("got %d chunks, want configured top 2", len(chunks))
	}
}

func TestSearchMinScore(t *testing.T) {
	ctx := context.Background()
	r := New(memory.NewStore(), termEmbedder{}, WithMinScore(0.9))

	docs := []corpus.Document{
		{Text: "wheat production"},
		{Text: "rice production"},
	}
	if err := r.Index(ctx, docs...); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	chunks, err := r.Search(ctx, "wheat", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 above the floor", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "wheat") {
		t.Errorf("surviving chunk = %q", chunks[0].Text)
	}
}

func TestIndexSplitsOversizedDocuments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := New(store, termEmbedder{}, WithChunking(12, 2))

	doc := corpus.Document{Text: "rice rice rice rice", Metadata: map[string]string{"source": "notes"}}
	if err := r.Index(ctx, doc); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	count, _ := r.Count(ctx)
	if count != 2 {
		t.Fatalf("Count() = %d, want 2 chunks", count)
	}

	// Chunk IDs are documentID#ordinal; both chunks carry the metadata.
	for _, id := range []string{"doc_1#0", "doc_1#1"} {
		entry, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if entry.Metadata["source"] != "notes" {
			t.Errorf("chunk %s metadata = %v", id, entry.Metadata)
		}
	}
}

func TestIndexTokenWindows(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := New(store, termEmbedder{}, WithChunking(3, 1), WithTokenizer(&wordTokenizer{}))

	doc := corpus.Document{Text: "rice wheat climate rice wheat"}
	if err := r.Index(ctx, doc); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	count, _ := r.Count(ctx)
	if count != 2 {
		t.Fatalf("Count() = %d, want 2 token windows", count)
	}

	entry, err := store.Get(ctx, "doc_1#0")
	if err != nil {
		t.Fatalf("Get(doc_1#0) error = %v", err)
	}
	if entry.Text != "rice wheat climate" {
		t.Errorf("first window = %q, want %q", entry.Text, "rice wheat climate")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	r := New(memory.NewStore(), termEmbedder{})

	if err := r.Index(ctx, corpus.Document{Text: "rice"}); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	count, _ := r.Count(ctx)
	if count != 0 {
		t.Errorf("Count() after Clear = %d, want 0", count)
	}
}

// wordTokenizer treats each whitespace-separated word as one token, keeping
// the words so Decode can reassemble windows.
type wordTokenizer struct {
	words []string
}

func (t *wordTokenizer) Encode(text string) []int {
	fields := strings.Fields(text)
	tokens := make([]int, len(fields))
	for i, w := range fields {
		tokens[i] = len(t.words)
		t.words = append(t.words, w)
	}
	return tokens
}

func (t *wordTokenizer) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = t.words[tok]
	}
	return strings.Join(words, " ")
}

func (t *wordTokenizer) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// termEmbedder scores texts by which of a fixed term set they mention, which
// makes similarity rankings deterministic in tests.
type termEmbedder struct{}

var embedderTerms = []string{"rice", "wheat", "climate"}

func (termEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(embedderTerms))
	lower := strings.ToLower(text)
	for i, term := range embedderTerms {
		if strings.Contains(lower, term) {
			vec[i] = 1
		}
	}
	return vector.Normalize(vec), nil
}

func (e termEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (termEmbedder) Dimension() int { return len(embedderTerms) }
