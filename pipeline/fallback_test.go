package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/search"
)

func TestAnswerGeneralWithoutSearcher(t *testing.T) {
	p := newTestPipeline(t, agridata.NewSampleProvider(), nil, nil)

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "Tell me about soil health", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v", err)
	}
	if answer != msgNoMatches {
		t.Errorf("answer = %q, want %q", answer, msgNoMatches)
	}
	if !cites.Empty() {
		t.Error("no-match answers should not register citations")
	}
}

func TestAnswerGeneralNoMatches(t *testing.T) {
	searcher := &stubSearcher{}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, nil, WithTopK(2))

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "Tell me about soil health", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v", err)
	}
	if answer != msgNoMatches {
		t.Errorf("answer = %q, want %q", answer, msgNoMatches)
	}
	if searcher.gotK != 2 {
		t.Errorf("k = %d, want the configured top-k", searcher.gotK)
	}
	if !cites.Empty() {
		t.Error("no-match answers should not register citations")
	}
}

func TestAnswerGeneralSearchError(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("index offline")}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, nil)

	if _, err := p.answerGeneral(context.Background(), "Tell me about soil health", NewCitations()); err == nil {
		t.Fatal("answerGeneral() should surface search failures")
	}

	answer, err := p.Ask(context.Background(), "Tell me about soil health")
	if err != nil {
		t.Fatalf("Ask() error = %v, want nil", err)
	}
	if !strings.HasPrefix(answer, "Error processing question:") || !strings.Contains(answer, "index offline") {
		t.Errorf("answer = %q, want folded search error", answer)
	}
}

func TestAnswerGeneralSynthesis(t *testing.T) {
	searcher := &stubSearcher{chunks: []search.Chunk{
		{Text: "Maharashtra produced 4800 tonnes of rice in Pune district in 2022.",
			Metadata: map[string]any{"type": "agricultural", "source": "agri_stats"}},
		{Text: "Rainfall in Pune measured 650mm in 2022.",
			Metadata: map[string]any{"type": "climate", "source": "imd"}},
	}}
	gen := &stubGenerator{answer: "  Maharashtra produced 4800 tonnes of rice in 2022.  "}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, gen)

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "How much rice did Maharashtra produce?", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v", err)
	}
	if want := "Maharashtra produced 4800 tonnes of rice in 2022."; answer != want {
		t.Errorf("answer = %q, want trimmed generator output %q", answer, want)
	}
	if got := cites.List(); len(got) != 1 || got[0] != "Vector Search Results - Agricultural Knowledge Base" {
		t.Errorf("citations = %v, want the knowledge base attribution", got)
	}

	for _, want := range []string{
		`"How much rice did Maharashtra produce?"`,
		"Document 1: Maharashtra produced 4800 tonnes of rice in Pune district in 2022.",
		"Document 2: Rainfall in Pune measured 650mm in 2022.",
	} {
		if !strings.Contains(gen.gotPrompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, gen.gotPrompt)
		}
	}
}

func TestAnswerGeneralUngroundedDisclaimer(t *testing.T) {
	searcher := &stubSearcher{chunks: []search.Chunk{
		{Text: "General notes on farming practices.", Metadata: map[string]any{"type": "general"}},
	}}
	gen := &stubGenerator{answer: "Soil health depends on organic matter, moisture retention, and microbial activity."}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, gen)

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "What makes soil healthy?", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v", err)
	}
	if !strings.HasSuffix(answer, groundingDisclaimer) {
		t.Errorf("answer should carry the disclaimer\nanswer:\n%s", answer)
	}
	if cites.Len() != 1 {
		t.Errorf("citations = %d, want 1; flagged answers still cite the corpus", cites.Len())
	}
}

func TestAnswerGeneralGenerationFailure(t *testing.T) {
	searcher := &stubSearcher{chunks: []search.Chunk{
		{Text: strings.Repeat("a", 250), Metadata: map[string]any{"source": "agri_stats", "type": "agricultural"}},
		{Text: "second", Metadata: map[string]any{"type": "general"}},
		{Text: "third", Metadata: map[string]any{"type": "general"}},
		{Text: "fourth", Metadata: map[string]any{"type": "general"}},
	}}
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, gen)

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "Tell me about soil health", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v, want snippet fallback", err)
	}

	for _, want := range []string{
		"**Query Results:** Tell me about soil health",
		"**Document 1:**",
		"- Content: " + strings.Repeat("a", 200) + "...",
		"- Source: map[source:agri_stats type:agricultural]",
		"**Document 3:**",
	} {
		if !strings.Contains(answer, want) {
			t.Errorf("answer missing %q\nanswer:\n%s", want, answer)
		}
	}
	if strings.Contains(answer, strings.Repeat("a", 201)) {
		t.Error("snippet text should be truncated at the cap")
	}
	if strings.Contains(answer, "**Document 4:**") {
		t.Error("snippet dump should stop after the top three chunks")
	}
	if !cites.Empty() {
		t.Error("the degraded path registers no citation")
	}
}

func TestAnswerGeneralWithoutGenerator(t *testing.T) {
	searcher := &stubSearcher{chunks: []search.Chunk{
		{Text: "some chunk", Metadata: map[string]any{"type": "general"}},
	}}
	p := newTestPipeline(t, agridata.NewSampleProvider(), searcher, nil)

	cites := NewCitations()
	answer, err := p.answerGeneral(context.Background(), "Tell me about soil health", cites)
	if err != nil {
		t.Fatalf("answerGeneral() error = %v", err)
	}
	if !strings.HasPrefix(answer, "**Query Results:**") {
		t.Errorf("answer = %q, want snippet dump without a generator", answer)
	}
	if !cites.Empty() {
		t.Error("the degraded path registers no citation")
	}
}

func TestBuildContext(t *testing.T) {
	chunks := []search.Chunk{
		{Text: "c1"}, {Text: "c2"}, {Text: "c3"}, {Text: "c4"}, {Text: "c5"}, {Text: "c6"},
	}
	got := buildContext(chunks, contextChunks)
	want := "Document 1: c1\n\nDocument 2: c2\n\nDocument 3: c3\n\nDocument 4: c4\n\nDocument 5: c5"
	if got != want {
		t.Errorf("buildContext() = %q, want %q", got, want)
	}
}
