// Package query turns free-form questions about Indian agriculture into a
// structured Analysis: the entities mentioned (states, crops, years,
// districts) and the intent that decides which answering strategy runs.
//
// Extraction is deliberately rule based. The recognised vocabulary is small
// and fixed, so gazetteer lookups and two regular expressions cover it
// without a model call, and the result is deterministic and cheap enough to
// run on every question.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Analysis is the structured reading of a question: the routing intent plus
// every recognised entity. Years keep extraction order and duplicates, since
// repeated years act as repeated filter values downstream.
type Analysis struct {
	Intent    Intent
	States    []string
	Crops     []string
	Years     []int
	Districts []string
}

// stateNames lists the recognised Indian states, lowercase. Matching is a
// plain substring check against the lowercased question, so multi-word names
// match regardless of capitalisation.
var stateNames = []string{
	"maharashtra", "karnataka", "tamil nadu", "punjab", "gujarat",
	"rajasthan", "madhya pradesh", "andhra pradesh", "telangana",
	"kerala", "odisha", "bihar", "haryana", "uttar pradesh", "west bengal",
}

// cropNames lists the recognised crops, lowercase.
var cropNames = []string{
	"rice", "wheat", "maize", "cotton", "sugarcane",
	"pulses", "soybean", "millet", "mustard",
}

var (
	// yearPattern accepts four-digit years in the 1900s and 2000s only, so
	// quantities like "15000 tonnes" never register as years.
	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// districtPattern captures the name in phrases like "in Pune district".
	districtPattern = regexp.MustCompile(`in ([a-z\s]+) district`)
)

// States returns the state gazetteer in lowercase form.
func States() []string {
	out := make([]string, len(stateNames))
	copy(out, stateNames)
	return out
}

// Crops returns the crop gazetteer in lowercase form.
func Crops() []string {
	out := make([]string, len(cropNames))
	copy(out, cropNames)
	return out
}

// Analyze extracts entities from a question and classifies its intent.
// Entity slices are left nil when nothing matched.
func Analyze(question string) Analysis {
	lower := strings.ToLower(question)

	var a Analysis
	for _, state := range stateNames {
		if strings.Contains(lower, state) {
			a.States = append(a.States, titleCase(state))
		}
	}
	for _, crop := range cropNames {
		if strings.Contains(lower, crop) {
			a.Crops = append(a.Crops, titleCase(crop))
		}
	}
	for _, tok := range yearPattern.FindAllString(question, -1) {
		year, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		a.Years = append(a.Years, year)
	}
	for _, m := range districtPattern.FindAllStringSubmatch(lower, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		a.Districts = append(a.Districts, titleCase(name))
	}

	a.Intent = classify(lower)
	return a
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest, producing the display form used throughout answers.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
