package corpus

import (
	"strings"
	"testing"
)

func TestSplitterCharacterWindows(t *testing.T) {
	s := NewSplitter(10, 3)

	t.Run("short text stays whole", func(t *testing.T) {
		chunks := s.Split("short")
		if len(chunks) != 1 || chunks[0] != "short" {
			t.Errorf("Split() = %v", chunks)
		}
	})

	t.Run("long text windows with overlap", func(t *testing.T) {
		text := "abcdefghijklmnopqrstuvwxy" // 25 chars
		chunks := s.Split(text)

		want := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxy"}
		if len(chunks) != len(want) {
			t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
		}
		for i := range want {
			if chunks[i] != want[i] {
				t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], want[i])
			}
		}
	})

	t.Run("multibyte runes never split", func(t *testing.T) {
		text := strings.Repeat("°", 25)
		for _, chunk := range s.Split(text) {
			for _, r := range chunk {
				if r != '°' {
					t.Fatalf("rune corrupted in chunk %q", chunk)
				}
			}
		}
	})
}

func TestSplitterGuards(t *testing.T) {
	s := NewSplitter(-5, 9999)
	if s.chunkSize != DefaultMaxChunkSize {
		t.Errorf("chunkSize = %d, want default %d", s.chunkSize, DefaultMaxChunkSize)
	}
	if s.overlap >= s.chunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", s.overlap, s.chunkSize)
	}
}

// wordTokenizer is a test stand-in that treats each whitespace-separated
// word as one token.
type wordTokenizer struct {
	words []string
}

func (w *wordTokenizer) Encode(text string) []int {
	fields := strings.Fields(text)
	ids := make([]int, len(fields))
	for i, f := range fields {
		ids[i] = len(w.words)
		w.words = append(w.words, f)
	}
	return ids
}

func (w *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, id := range tokens {
		parts[i] = w.words[id]
	}
	return strings.Join(parts, " ")
}

func (w *wordTokenizer) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func TestSplitterTokenWindows(t *testing.T) {
	s := NewTokenSplitter(&wordTokenizer{}, 3, 1)

	chunks := s.Split("one two three four five")
	want := []string{"one two three", "three four five"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %v", len(chunks), len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], want[i])
		}
	}
}
