package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishiq/krishiq/generate"
	"github.com/krishiq/krishiq/prompt"
	"github.com/krishiq/krishiq/search"
)

// synthesisPromptText is the fixed instruction template for the one
// generation call the fallback makes. It demands synthesis strictly from
// the supplied context, explicit statements about missing information,
// concrete figures with units, and document references.
const synthesisPromptText = `You are an expert agricultural data analyst. Based on the following retrieved documents, provide a comprehensive and accurate answer to the question: "{{.Question}}"

Retrieved Documents:
{{.Context}}

Instructions:
- Synthesize information from the documents to directly answer the question
- Be factual and accurate - do not make up information or extrapolate beyond what is in the documents
- If the documents do not contain enough information to fully answer, clearly state what information is missing
- Include specific data points, numbers, and details from the documents
- Structure your answer clearly and concisely with proper formatting
- When providing numerical data, ensure accuracy and include units
- For agricultural data, consider factors like crop types, regions, seasons, and production metrics
- If comparing data, use the exact figures from the documents
- Cite specific document references when providing information

Important: Only use information that is explicitly stated in the retrieved documents. Do not add external knowledge or assumptions.

Answer:`

// answerGeneral serves the general intent: retrieve the most relevant corpus
// chunks and synthesize an answer from them. With no searcher or no matches
// it reports that nothing relevant was found. When generation fails, the top
// snippets are rendered untouched so the caller still sees the retrieved
// evidence; that degraded path registers no citation.
func (p *Pipeline) answerGeneral(ctx context.Context, question string, cites *Citations) (string, error) {
	if p.searcher == nil {
		p.logger.Warn("no searcher configured, general questions cannot be answered")
		return msgNoMatches, nil
	}

	chunks, err := p.searcher.Search(ctx, question, p.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("semantic search: %w", err)
	}
	if len(chunks) == 0 {
		return msgNoMatches, nil
	}

	answer, err := p.synthesize(ctx, question, chunks)
	if err != nil {
		p.logger.Warn("synthesis failed, returning raw snippets", "error", err)
		return renderSnippets(question, chunks), nil
	}

	answer = groundAnswer(answer, chunks)
	cites.Add(searchSource, searchDataset)
	return answer, nil
}

// synthesize renders the instruction template over the top chunks and makes
// the single generation call. There are no retries: a failure here is
// recovered by the caller's snippet fallback.
func (p *Pipeline) synthesize(ctx context.Context, question string, chunks []search.Chunk) (string, error) {
	if p.generator == nil {
		return "", fmt.Errorf("%w: no generator configured", generate.ErrGeneration)
	}

	rendered, err := p.synthesis.Render(map[string]interface{}{
		"Question": question,
		"Context":  buildContext(chunks, contextChunks),
	})
	if err != nil {
		return "", fmt.Errorf("render synthesis prompt: %w", err)
	}

	out, err := p.generator.Generate(ctx, rendered)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// buildContext numbers the top chunks into the context block the synthesis
// template embeds.
func buildContext(chunks []search.Chunk, limit int) string {
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}
	b := prompt.NewBuilder()
	for i, chunk := range chunks {
		b.AddFormat("Document %d: %s\n\n", i+1, chunk.Text)
	}
	return strings.TrimRight(b.Build(), "\n")
}

// renderSnippets is the deterministic no-LLM rendering: the top chunks
// truncated, each with its raw metadata.
func renderSnippets(question string, chunks []search.Chunk) string {
	if len(chunks) > snippetChunks {
		chunks = chunks[:snippetChunks]
	}

	b := prompt.NewBuilder()
	b.AddFormat("**Query Results:** %s\n\n", question)
	for i, chunk := range chunks {
		text := chunk.Text
		if runes := []rune(text); len(runes) > snippetLength {
			text = string(runes[:snippetLength])
		}
		b.AddFormat("**Document %d:**\n", i+1)
		b.AddFormat("- Content: %s...\n", text)
		b.AddFormat("- Source: %v\n\n", chunk.Metadata)
	}
	return strings.TrimRight(b.Build(), "\n")
}
