package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quote is a reference-bank entry. SourceID and UsedInChapters are advisory
// references and are not enforced.
type Quote struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	Text           string                      `gorm:"type:text;not null" json:"text"`
	SourceID       *string                     `gorm:"size:36;index" json:"source_id"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	UsedInChapters datatypes.JSONSlice[string] `json:"used_in_chapters"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Tags == nil {
		q.Tags = datatypes.JSONSlice[string]{}
	}
	if q.UsedInChapters == nil {
		q.UsedInChapters = datatypes.JSONSlice[string]{}
	}
	return nil
}

type QuotePatch struct {
	Text           *string   `json:"text"`
	SourceID       *string   `json:"sourceId"`
	Tags           *[]string `json:"tags"`
	UsedInChapters *[]string `json:"usedInChapters"`
}
