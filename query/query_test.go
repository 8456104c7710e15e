package query

import (
	"reflect"
	"testing"
)

func TestAnalyzeEntities(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		states    []string
		crops     []string
		years     []int
		districts []string
	}{
		{
			name:     "states and crop",
			question: "Compare rice production between Maharashtra and Karnataka",
			states:   []string{"Maharashtra", "Karnataka"},
			crops:    []string{"Rice"},
		},
		{
			name:     "multi word state any case",
			question: "wheat output in TAMIL NADU and uttar pradesh",
			states:   []string{"Tamil Nadu", "Uttar Pradesh"},
			crops:    []string{"Wheat"},
		},
		{
			name:     "years in order with duplicates allowed",
			question: "report for 2021 and 1999 data",
			years:    []int{2021, 1999},
		},
		{
			name:     "quantities are not years",
			question: "Punjab produced 22500 tonnes of wheat in 2022",
			states:   []string{"Punjab"},
			crops:    []string{"Wheat"},
			years:    []int{2022},
		},
		{
			name:      "district phrase",
			question:  "How much rainfall in Pune district last year?",
			districts: []string{"Pune"},
		},
		{
			name:     "nothing recognised",
			question: "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(tt.question)
			if !reflect.DeepEqual(a.States, tt.states) {
				t.Errorf("States = %v, want %v", a.States, tt.states)
			}
			if !reflect.DeepEqual(a.Crops, tt.crops) {
				t.Errorf("Crops = %v, want %v", a.Crops, tt.crops)
			}
			if !reflect.DeepEqual(a.Years, tt.years) {
				t.Errorf("Years = %v, want %v", a.Years, tt.years)
			}
			if !reflect.DeepEqual(a.Districts, tt.districts) {
				t.Errorf("Districts = %v, want %v", a.Districts, tt.districts)
			}
		})
	}
}

func TestAnalyzeIntent(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     Intent
	}{
		{
			name:     "district wins over comparison when crop and state present",
			question: "Compare Maharashtra and Karnataka rice production in 2022",
			want:     IntentDistrict,
		},
		{
			name:     "comparison without production cues",
			question: "Compare rainfall between Maharashtra and Karnataka",
			want:     IntentComparison,
		},
		{
			name:     "district keywords without a state stay out of district",
			question: "total production of rice across the country",
			want:     IntentGeneral,
		},
		{
			name:     "trend",
			question: "Show the rainfall trend in Kerala over time",
			want:     IntentTrend,
		},
		{
			name:     "policy",
			question: "Why should the government promote millet instead of sugarcane?",
			want:     IntentPolicy,
		},
		{
			name:     "general fallback",
			question: "Tell me about soil health",
			want:     IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(tt.question).Intent; got != tt.want {
				t.Errorf("Intent = %q, want %q", got, tt.want)
			}
			if got := ClassifyIntent(tt.question); got != tt.want {
				t.Errorf("ClassifyIntent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGazetteersAreCopies(t *testing.T) {
	states := States()
	states[0] = "mutated"
	if States()[0] != "maharashtra" {
		t.Error("States() should return a copy")
	}

	crops := Crops()
	crops[0] = "mutated"
	if Crops()[0] != "rice" {
		t.Error("Crops() should return a copy")
	}
}
