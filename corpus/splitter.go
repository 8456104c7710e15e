package corpus

// Splitter cuts oversized document text into overlapping windows so every
// piece fits the embedding budget. Windows are counted in characters, or in
// model tokens when a Tokenizer is attached.
type Splitter struct {
	chunkSize int
	overlap   int
	tokenizer Tokenizer
}

// DefaultChunkOverlap is the window overlap used when none is given.
const DefaultChunkOverlap = 100

// NewSplitter returns a character-window splitter. Out-of-range sizes fall
// back to defaults; the overlap is always kept smaller than the window.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultMaxChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// NewTokenSplitter returns a splitter that windows by model tokens.
func NewTokenSplitter(tokenizer Tokenizer, chunkSize, overlap int) *Splitter {
	s := NewSplitter(chunkSize, overlap)
	s.tokenizer = tokenizer
	return s
}

// Split returns the text in windows of at most the chunk size, consecutive
// windows sharing the configured overlap. Text within budget comes back as
// a single piece.
func (s *Splitter) Split(text string) []string {
	if s.tokenizer != nil {
		return s.splitTokens(text)
	}
	return s.splitRunes(text)
}

func (s *Splitter) splitRunes(text string) []string {
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func (s *Splitter) splitTokens(text string) []string {
	tokens := s.tokenizer.Encode(text)
	if len(tokens) <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, s.tokenizer.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
