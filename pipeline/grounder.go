package pipeline

import (
	"regexp"
	"strings"

	"github.com/krishiq/krishiq/query"
	"github.com/krishiq/krishiq/search"
)

// groundingMinAnswerLength is the shortest answer that picks up the
// general-knowledge disclaimer. Short answers carry too few facts for the
// check to mean anything either way.
const groundingMinAnswerLength = 50

// groundingDisclaimer is appended to generated answers whose facts could not
// be matched back to the retrieved chunks.
const groundingDisclaimer = "\n\n*Note: This response is based on general knowledge as specific data matching your query was not found in the knowledge base.*"

var (
	numberPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	statePattern  = entityPattern(query.States())
	cropPattern   = entityPattern(query.Crops())
)

// entityPattern compiles a word-bounded alternation over lowered gazetteer
// names.
func entityPattern(names []string) *regexp.Regexp {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(name))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// groundAnswer verifies a synthesized answer against the chunks it was built
// from. The numbers, state names, and crop names mentioned in the chunks
// form a fact set, and at least one fact must reappear in the answer. When
// none does and the answer is substantial, the disclaimer is appended so
// readers know the model may have answered from general knowledge rather
// than the corpus. The check is a substring heuristic, not entailment;
// paraphrased facts escape it.
func groundAnswer(answer string, chunks []search.Chunk) string {
	var facts []string
	for _, chunk := range chunks {
		text := strings.ToLower(chunk.Text)
		facts = append(facts, numberPattern.FindAllString(text, -1)...)
		facts = append(facts, statePattern.FindAllString(text, -1)...)
		facts = append(facts, cropPattern.FindAllString(text, -1)...)
	}

	lower := strings.ToLower(answer)
	for _, fact := range facts {
		if strings.Contains(lower, fact) {
			return answer
		}
	}

	if len(strings.TrimSpace(answer)) > groundingMinAnswerLength {
		return answer + groundingDisclaimer
	}
	return answer
}
