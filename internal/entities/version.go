package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Version is an append-only snapshot of every chapter of a variant.
// Snapshot holds a JSON array of ChapterSnapshot values.
type Version struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	BookVariant  BookVariant    `gorm:"index;size:20;not null" json:"book_type"`
	VersionName  string         `gorm:"size:255;not null" json:"version_name"`
	Description  string         `gorm:"type:text" json:"description"`
	Snapshot     datatypes.JSON `json:"-"`
	ChapterCount int            `json:"chapter_count"`
	TotalWords   int            `json:"total_words"`
	Checksum     string         `gorm:"size:64" json:"checksum"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (Version) TableName() string {
	return "versions"
}

func (v *Version) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ChapterSnapshot is the frozen form of a chapter stored inside a Version.
type ChapterSnapshot struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Slug       string        `json:"slug"`
	Content    string        `json:"content"`
	OrderIndex int           `json:"order_index"`
	Status     ChapterStatus `json:"status"`
	WordCount  int           `json:"word_count"`
	Notes      string        `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func NewChapterSnapshot(c Chapter) ChapterSnapshot {
	return ChapterSnapshot{
		ID:         c.ID,
		Title:      c.Title,
		Slug:       c.Slug,
		Content:    c.Content,
		OrderIndex: c.OrderIndex,
		Status:     c.Status,
		WordCount:  c.WordCount,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// VersionDetail is a Version together with its decoded chapters.
type VersionDetail struct {
	Version
	Chapters []ChapterSnapshot `json:"chapters"`
	// Verified reports whether the stored payload still matches Checksum.
	Verified bool `json:"verified"`
}
