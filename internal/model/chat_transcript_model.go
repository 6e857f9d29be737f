package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTranscript struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionId     string                      `gorm:"type:varchar(64);not null;index:idx_transcripts_session_created,priority:1" json:"session_id"`
	ThreadId      string                      `gorm:"type:varchar(64);not null;index" json:"thread_id"`
	Query         string                      `gorm:"type:text;not null" json:"query"`
	Answer        string                      `gorm:"type:text" json:"answer"`
	Label         string                      `gorm:"type:varchar(20);index" json:"label"`
	Destination   string                      `gorm:"type:varchar(30)" json:"destination"`
	Status        string                      `gorm:"type:varchar(20)" json:"status"`
	Levels        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"levels"`
	AddedLevels   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"added_levels,omitempty"`
	ContextTitles datatypes.JSON              `gorm:"type:jsonb" json:"context_titles,omitempty"`
	LatencyMs     int64                       `json:"latency_ms"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime;index:idx_transcripts_session_created,priority:2" json:"created_at"`
}

func (ChatTranscript) TableName() string {
	return "chat_transcripts"
}
