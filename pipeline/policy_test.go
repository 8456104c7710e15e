package pipeline

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/query"
)

func TestAnalyzePolicyGuidance(t *testing.T) {
	provider := &stubProvider{}
	p := newTestPipeline(t, provider, nil, nil)

	answer, err := p.analyzePolicy(context.Background(), query.Analysis{Crops: []string{"Millet"}}, NewCitations())
	if err != nil {
		t.Fatalf("analyzePolicy() error = %v", err)
	}
	if answer != msgSpecifyPolicy {
		t.Errorf("answer = %q, want %q", answer, msgSpecifyPolicy)
	}
	if provider.calls != 0 {
		t.Error("guidance answers should not query the provider")
	}
}

func TestAnalyzePolicyArguments(t *testing.T) {
	provider := &stubProvider{records: []agridata.Record{
		record("Rajasthan", "Jaipur", "Millet", 2018, 100, 500),
		record("Rajasthan", "Jaipur", "Millet", 2019, 110, 600),
		record("Rajasthan", "Jaipur", "Millet", 2020, 105, 550),
		record("Rajasthan", "Jaipur", "Rice", 2018, 200, 500),
		record("Rajasthan", "Jaipur", "Rice", 2019, 400, 600),
		record("Rajasthan", "Jaipur", "Rice", 2020, 300, 550),
	}}
	p := newTestPipeline(t, provider, nil, nil)

	cites := NewCitations()
	answer, err := p.analyzePolicy(context.Background(), query.Analysis{Crops: []string{"Millet", "Rice"}}, cites)
	if err != nil {
		t.Fatalf("analyzePolicy() error = %v", err)
	}

	for _, want := range []string{
		"**Policy Analysis: Promoting Millet over Rice**",
		"1. **Water Efficiency**: Millet has low water requirements compared to Rice's high water requirements, making it more suitable for water-scarce regions.",
		"2. **Climate Resilience**: Millet shows stable production across varying rainfall conditions (avg: 550mm, variation: 50mm), indicating better resilience to climate variability.",
		"3. **Production Stability**: Millet demonstrates 21.0x more stable production compared to Rice, reducing food security risks.",
	} {
		if !strings.Contains(answer, want) {
			t.Errorf("answer missing %q\nanswer:\n%s", want, answer)
		}
	}
	if cites.Len() != 2 {
		t.Errorf("citations = %d, want 2", cites.Len())
	}
}

// Crops outside both classification lists fall back to high for the promoted
// crop and low for the compared one.
func TestAnalyzePolicyWaterNeedDefaults(t *testing.T) {
	provider := &stubProvider{records: []agridata.Record{
		record("Punjab", "Ludhiana", "Wheat", 2021, 22000, 400),
		record("Punjab", "Ludhiana", "Wheat", 2022, 22500, 420),
		record("Punjab", "Ludhiana", "Soybean", 2021, 900, 400),
		record("Punjab", "Ludhiana", "Soybean", 2022, 950, 420),
	}}
	p := newTestPipeline(t, provider, nil, nil)

	answer, err := p.analyzePolicy(context.Background(), query.Analysis{Crops: []string{"Wheat", "Soybean"}}, NewCitations())
	if err != nil {
		t.Fatalf("analyzePolicy() error = %v", err)
	}
	want := "Wheat has high water requirements compared to Soybean's low water requirements"
	if !strings.Contains(answer, want) {
		t.Errorf("answer missing %q\nanswer:\n%s", want, answer)
	}
}

func TestAnalyzePolicyStabilityGate(t *testing.T) {
	provider := &stubProvider{records: []agridata.Record{
		record("Rajasthan", "Jaipur", "Millet", 2018, 100, 500),
		record("Rajasthan", "Jaipur", "Millet", 2019, 300, 600),
		record("Rajasthan", "Jaipur", "Millet", 2020, 200, 550),
		record("Rajasthan", "Jaipur", "Rice", 2018, 300, 500),
		record("Rajasthan", "Jaipur", "Rice", 2019, 310, 600),
		record("Rajasthan", "Jaipur", "Rice", 2020, 305, 550),
	}}
	p := newTestPipeline(t, provider, nil, nil)

	answer, err := p.analyzePolicy(context.Background(), query.Analysis{Crops: []string{"Millet", "Rice"}}, NewCitations())
	if err != nil {
		t.Fatalf("analyzePolicy() error = %v", err)
	}
	if strings.Contains(answer, "3. **Production Stability**") {
		t.Errorf("stability argument should be dropped when the promoted crop is less stable\nanswer:\n%s", answer)
	}
	if !strings.Contains(answer, "1. **Water Efficiency**") || !strings.Contains(answer, "2. **Climate Resilience**") {
		t.Errorf("remaining arguments missing\nanswer:\n%s", answer)
	}
}

func TestAnalyzePolicyMissingCropData(t *testing.T) {
	provider := &stubProvider{records: []agridata.Record{
		record("Rajasthan", "Jaipur", "Millet", 2021, 100, 500),
		record("Rajasthan", "Jaipur", "Millet", 2022, 110, 600),
	}}
	p := newTestPipeline(t, provider, nil, nil)

	answer, err := p.analyzePolicy(context.Background(), query.Analysis{Crops: []string{"Millet", "Rice"}}, NewCitations())
	if err != nil {
		t.Fatalf("analyzePolicy() error = %v", err)
	}
	if strings.Contains(answer, "1. **Water Efficiency**") {
		t.Error("water argument needs data for both crops")
	}
	if !strings.Contains(answer, "2. **Climate Resilience**") {
		t.Error("resilience argument needs only the promoted crop's data")
	}
	if strings.Contains(answer, "3. **Production Stability**") {
		t.Error("stability argument needs data for both crops")
	}
}

func TestAnalyzePolicyYearFilter(t *testing.T) {
	t.Run("defaults to the historical window", func(t *testing.T) {
		provider := &stubProvider{}
		p := newTestPipeline(t, provider, nil, nil)

		analysis := query.Analysis{Crops: []string{"Millet", "Rice"}}
		if _, err := p.analyzePolicy(context.Background(), analysis, NewCitations()); err != nil {
			t.Fatalf("analyzePolicy() error = %v", err)
		}
		if want := []int{2018, 2019, 2020, 2021, 2022}; !reflect.DeepEqual(provider.lastFilter.Years, want) {
			t.Errorf("Years = %v, want %v", provider.lastFilter.Years, want)
		}
	})

	t.Run("mentioned years pass through", func(t *testing.T) {
		provider := &stubProvider{}
		p := newTestPipeline(t, provider, nil, nil)

		analysis := query.Analysis{Crops: []string{"Millet", "Rice"}, Years: []int{2020, 2021}}
		if _, err := p.analyzePolicy(context.Background(), analysis, NewCitations()); err != nil {
			t.Fatalf("analyzePolicy() error = %v", err)
		}
		if want := []int{2020, 2021}; !reflect.DeepEqual(provider.lastFilter.Years, want) {
			t.Errorf("Years = %v, want %v", provider.lastFilter.Years, want)
		}
	})
}
