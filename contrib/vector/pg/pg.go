// Package pg provides a vector.Store on PostgreSQL with the pgvector
// extension. Similarity search runs in the database with the cosine
// distance operator, so the corpus never has to fit in process memory.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"github.com/krishiq/krishiq/config"
	"github.com/krishiq/krishiq/errors"
	"github.com/krishiq/krishiq/vector"
)

// Store implements vector.Store using PostgreSQL with pgvector.
type Store struct {
	db          *sql.DB
	dimension   int
	tableName   string
	indexMethod string
}

// Config holds pgvector configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string
	Dimension int    // embedding dimension (default 1536)
	TableName string // table name (default embeddings)
	IndexType string // HNSW or IVFFLAT (default HNSW)
}

// DefaultConfig returns default pgvector configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:      "localhost",
		Port:      5432,
		User:      "postgres",
		Password:  "postgres",
		DBName:    "krishiq",
		SSLMode:   "disable",
		Dimension: 1536,
		TableName: "embeddings",
		IndexType: "HNSW",
	}
}

// ConfigFromEnv loads pgvector configuration from environment variables,
// falling back to defaults.
func ConfigFromEnv() *Config {
	return &Config{
		Host:      getEnv("PGVECTOR_HOST", "localhost"),
		Port:      getEnvInt("PGVECTOR_PORT", 5432),
		User:      getEnv("PGVECTOR_USER", "postgres"),
		Password:  getEnv("PGVECTOR_PASSWORD", ""),
		DBName:    getEnv("PGVECTOR_DB", "krishiq"),
		SSLMode:   getEnv("PGVECTOR_SSLMODE", "disable"),
		Dimension: getEnvInt("PGVECTOR_DIMENSION", 1536),
		TableName: getEnv("PGVECTOR_TABLE", "embeddings"),
		IndexType: getEnv("PGVECTOR_INDEX", "HNSW"),
	}
}

// Validate checks the configuration before connecting.
func (c *Config) Validate() error {
	return config.ValidatePGVectorConfig(c.Host, c.Port, c.User, c.Password,
		c.DBName, c.SSLMode, c.Dimension, c.TableName, c.IndexType)
}

// NewStore connects to PostgreSQL, enables pgvector, and creates the
// embeddings table and similarity index.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pgvector config: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	s := &Store{
		db:          db,
		dimension:   cfg.Dimension,
		tableName:   cfg.TableName,
		indexMethod: cfg.IndexType,
	}

	if err := s.setup(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to setup pgvector: %w", err)
	}

	return s, nil
}

// setup enables the extension and creates the table and index.
func (s *Store) setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(255) PRIMARY KEY,
		text TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}',
		embedding vector(%d) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, s.tableName, s.dimension)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	var indexSQL string
	switch strings.ToUpper(s.indexMethod) {
	case "IVFFLAT":
		indexSQL = fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)",
			s.tableName, s.tableName)
	default:
		indexSQL = fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)",
			s.tableName, s.tableName)
	}

	if _, err := s.db.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("failed to create similarity index: %w", err)
	}

	return nil
}

// Add stores entries, replacing any existing entry with the same ID.
func (s *Store) Add(ctx context.Context, entries ...*vector.Entry) error {
	query := fmt.Sprintf(`
	INSERT INTO %s (id, text, metadata, embedding)
	VALUES ($1, $2, $3, $4::vector)
	ON CONFLICT (id) DO UPDATE SET
		text = EXCLUDED.text,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding,
		created_at = CURRENT_TIMESTAMP
	`, s.tableName)

	for _, entry := range entries {
		if entry == nil {
			return fmt.Errorf("entry cannot be nil")
		}
		if entry.ID == "" {
			return fmt.Errorf("entry ID cannot be empty")
		}
		if len(entry.Vector) != s.dimension {
			return fmt.Errorf("entry dimension mismatch: expected %d, got %d", s.dimension, len(entry.Vector))
		}

		metadataJSON, err := marshalMetadata(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		_, err = s.db.ExecContext(ctx, query, entry.ID, entry.Text, metadataJSON, vectorToString(entry.Vector))
		if err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}
	}
	return nil
}

// Search finds the entries most similar to the query vector, best first.
// The <=> operator orders by cosine distance.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int) ([]*vector.Entry, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if len(queryVector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(queryVector))
	}
	if topK <= 0 {
		topK = 10
	}

	query := fmt.Sprintf(`
	SELECT id, text, metadata, embedding
	FROM %s
	ORDER BY embedding <=> $1::vector
	LIMIT $2
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, vectorToString(queryVector), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*vector.Entry, 0, topK)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// Get retrieves an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*vector.Entry, error) {
	query := fmt.Sprintf(`
	SELECT id, text, metadata, embedding
	FROM %s
	WHERE id = $1
	`, s.tableName)

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("entry %q: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// Delete removes an entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("entry %q: %w", id, errors.ErrNotFound)
	}
	return nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ vector.Store = (*Store)(nil)

// Helper functions

func scanEntry(scan func(dest ...any) error) (*vector.Entry, error) {
	var id, text, metadataJSON, vectorStr string
	if err := scan(&id, &text, &metadataJSON, &vectorStr); err != nil {
		return nil, err
	}

	metadata, err := unmarshalMetadata(metadataJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata for entry %s: %w", id, err)
	}

	vec, err := stringToVector(vectorStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vector for entry %s: %w", id, err)
	}

	return &vector.Entry{ID: id, Text: text, Metadata: metadata, Vector: vec}, nil
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalMetadata(metadataJSON string) (map[string]string, error) {
	if metadataJSON == "" || metadataJSON == "{}" {
		return nil, nil
	}
	metadata := make(map[string]string)
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func vectorToString(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func stringToVector(str string) ([]float32, error) {
	str = strings.TrimPrefix(str, "[")
	str = strings.TrimSuffix(str, "]")
	parts := strings.Split(str, ",")

	vec := make([]float32, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vector component at index %d: %q", i, part)
		}
		vec = append(vec, float32(v))
	}
	return vec, nil
}

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
