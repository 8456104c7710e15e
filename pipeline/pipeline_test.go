package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/krishiq/krishiq/agridata"
	krishiqerrors "github.com/krishiq/krishiq/errors"
	"github.com/krishiq/krishiq/generate"
	"github.com/krishiq/krishiq/history/store"
	"github.com/krishiq/krishiq/query"
	"github.com/krishiq/krishiq/search"
)

// stubProvider returns its fixed records for every query and captures the
// last filter so tests can assert what a strategy asked for.
type stubProvider struct {
	records []agridata.Record
	err     error

	calls      int
	lastFilter agridata.Filter
}

func (s *stubProvider) Query(ctx context.Context, f agridata.Filter) ([]agridata.Record, error) {
	s.calls++
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type stubSearcher struct {
	chunks []search.Chunk
	err    error

	gotQuery string
	gotK     int
}

func (s *stubSearcher) Search(ctx context.Context, query string, k int) ([]search.Chunk, error) {
	s.gotQuery, s.gotK = query, k
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

type stubGenerator struct {
	answer string
	err    error

	gotPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.gotPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

// record builds a joined row carrying the bundled dataset provenance.
func record(state, district, crop string, year int, production, rainfall float64) agridata.Record {
	return agridata.Record{
		State:            state,
		District:         district,
		Crop:             crop,
		Year:             year,
		ProductionTonnes: production,
		TotalRainfallMM:  rainfall,
		AgriSource:       agridata.AgriSource,
		AgriDataset:      agridata.AgriDataset,
		ClimateSource:    agridata.ClimateSource,
		ClimateDataset:   agridata.ClimateDataset,
	}
}

func newTestPipeline(t *testing.T, provider agridata.Provider, searcher search.Searcher, gen generate.Generator, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(provider, searcher, gen, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Fatal("New() with nil provider should fail")
	}
}

func TestOptions(t *testing.T) {
	cfg := applyOptions(nil, []Option{WithName(""), WithTopK(0), WithHistory(nil)})
	if cfg.Name != "krishiq" {
		t.Errorf("Name = %q, want default kept for empty override", cfg.Name)
	}
	if cfg.TopK != retrievalTopK {
		t.Errorf("TopK = %d, want default kept for non-positive override", cfg.TopK)
	}
	if cfg.history != nil {
		t.Error("nil history store should be ignored")
	}

	audit := store.NewMemoryStore()
	cfg = applyOptions(nil, []Option{WithName("qa"), WithTopK(3), WithHistory(audit)})
	if cfg.Name != "qa" || cfg.TopK != 3 || cfg.history != audit {
		t.Errorf("options not applied: %+v", cfg)
	}
}

func TestAskRejectsInvalidInput(t *testing.T) {
	p := newTestPipeline(t, agridata.NewSampleProvider(), nil, nil)

	for _, question := range []string{"", "<script>alert(1)</script>", "SELECT * FROM users; --"} {
		answer, err := p.Ask(context.Background(), question)
		if !errors.Is(err, krishiqerrors.ErrInvalidInput) {
			t.Errorf("Ask(%q) error = %v, want ErrInvalidInput", question, err)
		}
		if answer != "" {
			t.Errorf("Ask(%q) = %q, want empty answer on rejection", question, answer)
		}
	}
}

func TestAskDistrictQuestion(t *testing.T) {
	p := newTestPipeline(t, agridata.NewSampleProvider(), nil, nil)

	answer, err := p.Ask(context.Background(), "Compare Maharashtra and Karnataka rice production in 2022")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	for _, want := range []string{
		"**District-level Analysis: Rice production in Maharashtra, Karnataka**",
		"**Highest production**: Pune (13,915 tonnes)",
		"**Climate factor**: Pune receives 650mm avg rainfall",
		"**Sources:**",
		"- Ministry of Agriculture & Farmers Welfare - Agricultural Production Statistics",
		"- India Meteorological Department - District-wise Climate Statistics",
	} {
		if !strings.Contains(answer, want) {
			t.Errorf("answer missing %q\nanswer:\n%s", want, answer)
		}
	}
}

func TestAskFoldsStrategyErrors(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("connection refused")}
	p := newTestPipeline(t, provider, nil, nil)

	answer, err := p.Ask(context.Background(), "Compare Maharashtra and Karnataka rice production")
	if err != nil {
		t.Fatalf("Ask() error = %v, want nil", err)
	}
	if !strings.HasPrefix(answer, "Error processing question:") {
		t.Errorf("answer = %q, want error report prefix", answer)
	}
	if strings.Contains(answer, "**Sources:**") {
		t.Error("failed answers should not carry a Sources block")
	}
}

func TestAskRecordsHistory(t *testing.T) {
	audit := store.NewMemoryStore()
	p := newTestPipeline(t, agridata.NewSampleProvider(), nil, nil, WithHistory(audit))

	ctx := context.Background()
	answer, err := p.Ask(ctx, "Compare Maharashtra and Karnataka rice production in 2022")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	ids, err := audit.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("stored records = %d, want 1", len(ids))
	}

	rec, err := audit.Load(ctx, ids[0])
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Intent != string(query.IntentDistrict) {
		t.Errorf("Intent = %q, want %q", rec.Intent, query.IntentDistrict)
	}
	if rec.Answer != answer {
		t.Error("stored answer should match the returned answer")
	}
	if len(rec.Citations) != 2 {
		t.Errorf("Citations = %d, want 2", len(rec.Citations))
	}
}

// Ask must not leak citations between queries running at the same time: a
// general question with no matches never gains a Sources block, no matter
// how many cited answers run alongside it.
func TestAskConcurrentCitationIsolation(t *testing.T) {
	p := newTestPipeline(t, agridata.NewSampleProvider(), nil, nil)

	const iterations = 25
	errCh := make(chan error, 2*iterations)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			answer, err := p.Ask(context.Background(), "Compare Maharashtra and Karnataka rice production in 2022")
			if err != nil {
				errCh <- err
				continue
			}
			if n := strings.Count(answer, "**Sources:**"); n != 1 {
				errCh <- fmt.Errorf("district answer has %d Sources blocks, want 1", n)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			answer, err := p.Ask(context.Background(), "Tell me about soil health")
			if err != nil {
				errCh <- err
				continue
			}
			if strings.Contains(answer, "**Sources:**") {
				errCh <- fmt.Errorf("general answer leaked citations: %q", answer)
			}
		}
	}()
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
}
