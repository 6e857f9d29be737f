package dto

import (
	"time"

	"parent-assistant-be/pkg/rag/history"
)

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	ThreadId  string `json:"thread_id"`
	Phase     string `json:"phase"`
	Token     string `json:"token,omitempty"`
}

type SetLevelsRequest struct {
	Levels []string `json:"levels" validate:"required,min=1,max=4,dive,required"`
}

type SetLevelsResponse struct {
	Announcement string   `json:"announcement"`
	ActiveLevels []string `json:"active_levels"`
	Phase        string   `json:"phase"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	Answer      string   `json:"answer"`
	Label       string   `json:"label"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
	AddedLevels []string `json:"added_levels,omitempty"`
	Sources     []string `json:"sources,omitempty"`
}

type ClearHistoryRequest struct {
	PreserveLevels bool `json:"preserve_levels"`
}

type ClearHistoryResponse struct {
	ThreadId     string   `json:"thread_id"`
	Phase        string   `json:"phase"`
	ActiveLevels []string `json:"active_levels"`
}

type SetCompressionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type SessionStateResponse struct {
	SessionId       string         `json:"session_id"`
	ThreadId        string         `json:"thread_id"`
	Phase           string         `json:"phase"`
	ActiveLevels    []string       `json:"active_levels"`
	Turns           []history.Turn `json:"turns"`
	LastSources     []string       `json:"last_sources,omitempty"`
	LastSource      string         `json:"last_source,omitempty"`
	CompressEnabled bool           `json:"compress_enabled"`
	CreatedAt       time.Time      `json:"created_at"`
}

type LevelResponse struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

type HealthResponse struct {
	Status         string           `json:"status"`
	ActiveSessions int              `json:"active_sessions"`
	Knowledge      map[string]int64 `json:"knowledge,omitempty"`
}

// SocketInbound is a frame sent by the chat client.
type SocketInbound struct {
	Type           string   `json:"type" validate:"required,oneof=chat levels clear"`
	Message        string   `json:"message,omitempty"`
	Levels         []string `json:"levels,omitempty"`
	PreserveLevels bool     `json:"preserve_levels,omitempty"`
}

// TranscriptMessage is queued for the transcript consumer after each turn.
type TranscriptMessage struct {
	SessionId     string    `json:"session_id"`
	ThreadId      string    `json:"thread_id"`
	Query         string    `json:"query"`
	Answer        string    `json:"answer"`
	Label         string    `json:"label"`
	Destination   string    `json:"destination"`
	Status        string    `json:"status"`
	Levels        []string  `json:"levels"`
	AddedLevels   []string  `json:"added_levels,omitempty"`
	ContextTitles []string  `json:"context_titles,omitempty"`
	LatencyMs     int64     `json:"latency_ms"`
	CompletedAt   time.Time `json:"completed_at"`
}

// KnowledgeChunkItem is one entry of a chunks/<level>.json file.
type KnowledgeChunkItem struct {
	Id            string `json:"id"`
	Level         string `json:"level"`
	Title         string `json:"title"`
	Question      string `json:"question"`
	EmbeddingHint string `json:"embedding_hint"`
	Content       string `json:"content"`
	Source        string `json:"source"`
	ChunkIndex    int    `json:"chunk_index"`
}
