// Package pipeline answers natural-language questions about Indian
// agricultural production and climate statistics.
//
// Each question is validated, scanned for entities (states, crops, years,
// districts), and classified into an intent. Four intents route to
// deterministic aggregation strategies over the joined agri+climate dataset:
// state comparison, multi-year trend analysis, crop policy arguments, and
// district ranking. Everything else falls back to semantic retrieval plus
// LLM synthesis, with a grounding check that flags answers the retrieved
// text does not support. Every dataset or corpus consulted during a query is
// cited in a trailing Sources block.
//
// The pipeline holds injected collaborators only and is immutable after
// construction; all per-query state lives in values created inside Ask, so
// one Pipeline serves concurrent callers.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/generate"
	"github.com/krishiq/krishiq/history"
	"github.com/krishiq/krishiq/pkg/logging"
	"github.com/krishiq/krishiq/pkg/telemetry"
	"github.com/krishiq/krishiq/prompt"
	"github.com/krishiq/krishiq/query"
	"github.com/krishiq/krishiq/search"
)

const (
	// retrievalTopK is how many chunks the fallback requests per question.
	retrievalTopK = 5
	// contextChunks caps how many retrieved chunks enter the synthesis
	// prompt.
	contextChunks = 5
	// snippetChunks and snippetLength shape the degraded rendering used
	// when generation fails: the top chunks, truncated.
	snippetChunks = 3
	snippetLength = 200
)

// Guidance and degraded-path messages returned in place of an answer.
const (
	msgSpecifyStates   = "Please specify which states you want to compare."
	msgSpecifyTrend    = "Please specify states and crops for trend analysis."
	msgSpecifyPolicy   = "Please specify two crops to compare for policy analysis."
	msgSpecifyDistrict = "Please specify states and crops for district comparison."
	msgNoData          = "No data available for the specified states and time period."
	msgNoMatches       = "No relevant information found for your query."
)

// Attribution registered when an answer was synthesized from retrieved
// corpus chunks.
const (
	searchSource  = "Vector Search Results"
	searchDataset = "Agricultural Knowledge Base"
)

// defaultComparisonYears is the filter applied when a comparison question
// names no years: the latest dataset year plus the one before it.
var defaultComparisonYears = []int{2022, 2021}

// historicalWindow returns the fixed 2018-2022 lookback the trend strategy
// always uses and the policy strategy defaults to. The window tracks
// dataset coverage, not question wording.
func historicalWindow() []int {
	years := make([]int, 0, 5)
	for y := 2018; y <= 2022; y++ {
		years = append(years, y)
	}
	return years
}

// Pipeline routes questions to answering strategies over the injected
// collaborators.
type Pipeline struct {
	provider  agridata.Provider
	searcher  search.Searcher
	generator generate.Generator
	synthesis *prompt.Template
	cfg       *Config
	logger    *slog.Logger
	tracer    trace.Tracer

	askSeq atomic.Int64
}

// New creates a pipeline over the given dataset provider. The searcher and
// generator serve the general-intent retrieval fallback; either may be nil,
// degrading that path to its no-result or snippet-dump form.
func New(provider agridata.Provider, searcher search.Searcher, gen generate.Generator, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, fmt.Errorf("dataset provider is required")
	}
	cfg := applyOptions(nil, opts)

	synthesis, err := prompt.NewTemplate("synthesis", synthesisPromptText)
	if err != nil {
		return nil, fmt.Errorf("parse synthesis template: %w", err)
	}

	p := &Pipeline{
		provider:  provider,
		searcher:  searcher,
		generator: gen,
		synthesis: synthesis,
		cfg:       cfg,
		logger:    logging.WithComponent("pipeline").With("name", cfg.Name),
		tracer:    otel.Tracer("github.com/krishiq/krishiq/pipeline"),
	}
	p.logger.Info("pipeline initialised",
		"top_k", cfg.TopK,
		"retrieval", searcher != nil,
		"generation", gen != nil,
		"history", cfg.history != nil,
	)
	return p, nil
}

// Ask answers one question and is the sole entry point. The error return
// carries input validation failures only; every other per-query failure is
// folded into the answer text, so callers always have something to show.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	question, err := query.Sanitize(question)
	if err != nil {
		return "", err
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.ask",
		trace.WithAttributes(attribute.Int("question.length", len(question))))

	analysis := query.Analyze(question)
	span.SetAttributes(attribute.String("question.intent", string(analysis.Intent)))
	p.logger.Info("question received",
		"intent", analysis.Intent,
		"question", trimForLog(question, 120),
	)

	cites := NewCitations()
	answer, runErr := p.route(ctx, question, analysis, cites)
	if runErr != nil {
		p.logger.Error("answer strategy failed", "intent", analysis.Intent, "error", runErr)
		answer = "Error processing question: " + runErr.Error()
	} else if !cites.Empty() {
		answer += "\n\n" + cites.Render()
	}

	span.SetAttributes(attribute.Int("citations.count", cites.Len()))
	telemetry.End(span, runErr)

	p.recordHistory(ctx, question, analysis.Intent, answer, cites)
	p.logger.Info("question answered",
		"intent", analysis.Intent,
		"citations", cites.Len(),
		"answer_length", len(answer),
	)
	return answer, nil
}

func (p *Pipeline) route(ctx context.Context, question string, analysis query.Analysis, cites *Citations) (string, error) {
	switch analysis.Intent {
	case query.IntentComparison:
		return p.compareStates(ctx, analysis, cites)
	case query.IntentTrend:
		return p.analyzeTrend(ctx, analysis, cites)
	case query.IntentPolicy:
		return p.analyzePolicy(ctx, analysis, cites)
	case query.IntentDistrict:
		return p.compareDistricts(ctx, analysis, cites)
	default:
		return p.answerGeneral(ctx, question, cites)
	}
}

// recordHistory persists an audit record when a history store is attached.
// Failures are logged, never surfaced: auditing must not fail the query.
func (p *Pipeline) recordHistory(ctx context.Context, question string, intent query.Intent, answer string, cites *Citations) {
	if p.cfg.history == nil {
		return
	}
	record := &history.Record{
		ID:        fmt.Sprintf("q_%d_%d", time.Now().UnixNano(), p.askSeq.Add(1)),
		Question:  question,
		Intent:    string(intent),
		Answer:    answer,
		Citations: cites.List(),
		CreatedAt: time.Now(),
	}
	if err := p.cfg.history.Save(ctx, record); err != nil {
		p.logger.Error("failed to record query history", "record_id", record.ID, "error", err)
	}
}

func trimForLog(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len([]rune(text)) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
