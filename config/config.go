package config

import (
	"os"
	"strconv"
)

// Settings holds the process configuration for the question answering
// service. Values come from environment variables with sensible defaults;
// only the Gemini API key has no default and must be provided.
type Settings struct {
	GeminiAPIKey string // GEMINI_API_KEY, required
	OpenAIAPIKey string // OPENAI_API_KEY, required only when embedding remotely

	GenerationModel string  // KRISHIQ_GENERATION_MODEL
	EmbeddingModel  string  // KRISHIQ_EMBEDDING_MODEL
	Temperature     float64 // KRISHIQ_TEMPERATURE
	MaxTokens       int     // KRISHIQ_MAX_TOKENS

	MaxChunkSize int // KRISHIQ_MAX_CHUNK_SIZE, character budget per indexed chunk
	ChunkOverlap int // KRISHIQ_CHUNK_OVERLAP
	TopK         int // KRISHIQ_TOP_K, neighbors fetched per retrieval
}

// FromEnv loads settings from environment variables.
func FromEnv() *Settings {
	return &Settings{
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		GenerationModel: getEnv("KRISHIQ_GENERATION_MODEL", "gemini-2.0-flash-exp"),
		EmbeddingModel:  getEnv("KRISHIQ_EMBEDDING_MODEL", "text-embedding-3-small"),
		Temperature:     getEnvFloat("KRISHIQ_TEMPERATURE", 0.1),
		MaxTokens:       getEnvInt("KRISHIQ_MAX_TOKENS", 2048),
		MaxChunkSize:    getEnvInt("KRISHIQ_MAX_CHUNK_SIZE", 1000),
		ChunkOverlap:    getEnvInt("KRISHIQ_CHUNK_OVERLAP", 100),
		TopK:            getEnvInt("KRISHIQ_TOP_K", 5),
	}
}

// Validate reports configuration errors. Callers are expected to treat a
// non-nil result as fatal at startup.
func (s *Settings) Validate() error {
	v := NewValidator()

	v.RequireNonEmpty("geminiAPIKey", s.GeminiAPIKey)
	v.RequireNonEmpty("generationModel", s.GenerationModel)
	v.RequireNonEmpty("embeddingModel", s.EmbeddingModel)
	v.ValidateFloatRange("temperature", s.Temperature, 0.0, 2.0)
	v.RequirePositive("maxTokens", s.MaxTokens)
	v.RequirePositive("maxChunkSize", s.MaxChunkSize)
	v.ValidateRange("chunkOverlap", s.ChunkOverlap, 0, s.MaxChunkSize)
	v.RequirePositive("topK", s.TopK)

	return v.Error()
}

// Helper functions for environment variable reading

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
