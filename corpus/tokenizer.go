package corpus

// Tokenizer converts text to token IDs and back. The Splitter uses one to
// window documents by model tokens instead of characters.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
	CountTokens(text string) int
}
