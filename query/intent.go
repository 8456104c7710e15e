package query

import "strings"

// Intent identifies which answering strategy a question routes to.
type Intent string

const (
	// IntentGeneral falls through to semantic retrieval plus synthesis.
	IntentGeneral Intent = "general"
	// IntentComparison compares production and rainfall across states.
	IntentComparison Intent = "comparison"
	// IntentTrend reports multi-year production and rainfall movement.
	IntentTrend Intent = "trend_analysis"
	// IntentPolicy builds arguments for promoting one crop over another.
	IntentPolicy Intent = "policy_analysis"
	// IntentDistrict ranks districts within a state by crop production.
	IntentDistrict Intent = "district_comparison"
)

// classificationRule matches an intent by keyword presence. Rules are
// evaluated in order and the first hit wins, so earlier entries take
// precedence when a question carries cues for several intents.
type classificationRule struct {
	intent        Intent
	keywords      []string
	requiresState bool
}

// ClassifyIntent assigns the answering strategy for a question. It rescans
// the raw text and does not need entity extraction to have run first.
func ClassifyIntent(question string) Intent {
	return classify(strings.ToLower(question))
}

var classificationRules = []classificationRule{
	{
		intent:        IntentDistrict,
		keywords:      []string{"total", "production", "rice", "wheat", "maize"},
		requiresState: true,
	},
	{
		intent:   IntentComparison,
		keywords: []string{"compare", "comparison", "vs", "versus", "between"},
	},
	{
		intent:   IntentTrend,
		keywords: []string{"trend", "over time", "decade", "years", "historical"},
	},
	{
		intent:   IntentPolicy,
		keywords: []string{"policy", "scheme", "promote", "recommend", "argument"},
	},
}

func classify(lower string) Intent {
	for _, rule := range classificationRules {
		if !containsAny(lower, rule.keywords) {
			continue
		}
		if rule.requiresState && !containsAny(lower, stateNames) {
			continue
		}
		return rule.intent
	}
	return IntentGeneral
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
