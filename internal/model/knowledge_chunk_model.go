package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KnowledgeChunk struct {
	Id            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Level         string          `gorm:"type:varchar(20);not null;index"`
	Title         string          `gorm:"type:varchar(255)"`
	Question      string          `gorm:"type:text"`
	EmbeddingHint string          `gorm:"type:text"`
	Content       string          `gorm:"type:text;not null"`
	SourceFile    string          `gorm:"type:varchar(255);index"`
	ChunkIndex    int             `gorm:"default:0"`
	Embedding     pgvector.Vector `gorm:"type:vector(768)"` // gemini-embedding-001 truncated to 768 dimensions
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
