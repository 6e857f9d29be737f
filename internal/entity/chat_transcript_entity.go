package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTranscript is the audit record of one answered turn.
type ChatTranscript struct {
	Id            uuid.UUID
	SessionId     string
	ThreadId      string
	Query         string
	Answer        string
	Label         string
	Destination   string
	Status        string
	Levels        []string
	AddedLevels   []string
	ContextTitles []string
	LatencyMs     int64
	CreatedAt     time.Time
}
