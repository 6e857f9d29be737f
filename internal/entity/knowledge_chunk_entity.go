package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one searchable passage of the school's documents.
type KnowledgeChunk struct {
	Id            uuid.UUID
	Level         string
	Title         string
	Question      string
	EmbeddingHint string
	Content       string
	SourceFile    string
	ChunkIndex    int
	Embedding     []float32
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// EmbeddingText is the text the chunk is embedded from.
func (c *KnowledgeChunk) EmbeddingText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Title, c.Question, c.EmbeddingHint, c.Content} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}
