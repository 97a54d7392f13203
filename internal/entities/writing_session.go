package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WritingSession records one stretch of writing, used for daily goal tracking.
type WritingSession struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	BookVariant     BookVariant `gorm:"index;size:20;not null" json:"book_type"`
	ChapterID       *string     `gorm:"size:36" json:"chapter_id"`
	WordsWritten    int         `json:"words_written"`
	DurationSeconds int         `json:"duration_seconds"`
	StartedAt       time.Time   `gorm:"index" json:"started_at"`
	EndedAt         *time.Time  `json:"ended_at"`
}

func (WritingSession) TableName() string {
	return "writing_sessions"
}

func (w *WritingSession) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// SessionTotals aggregates the sessions started within a time window.
type SessionTotals struct {
	Sessions        int64 `json:"sessions"`
	WordsWritten    int64 `json:"words_written"`
	DurationSeconds int64 `json:"duration_seconds"`
}
