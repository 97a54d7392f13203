package entities

import (
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SourceCategory string

const (
	SourceCategoryNotebookLM SourceCategory = "notebooklm"
	SourceCategoryDocs       SourceCategory = "docs"
	SourceCategoryNotes      SourceCategory = "notes"
	SourceCategoryWebsite    SourceCategory = "website"
	SourceCategoryOther      SourceCategory = "other"
)

var SourceCategories = []SourceCategory{
	SourceCategoryNotebookLM,
	SourceCategoryDocs,
	SourceCategoryNotes,
	SourceCategoryWebsite,
	SourceCategoryOther,
}

func (c SourceCategory) Valid() bool {
	for _, known := range SourceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Source is a reference file attached to the manuscript. The catalog owns
// this row; the bytes live in the blob store under BlobKey.
type Source struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	Filename       string                      `gorm:"size:255;not null" json:"filename"`
	OriginalName   string                      `gorm:"size:512;not null" json:"original_name"`
	FileType       string                      `gorm:"size:20;not null" json:"file_type"`
	Category       SourceCategory              `gorm:"index;size:20;not null" json:"category"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	Highlights     datatypes.JSONSlice[string] `json:"highlights"`
	LinkedChapters datatypes.JSONSlice[string] `json:"linked_chapters"`
	FileSize       int64                       `json:"file_size"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
}

func (Source) TableName() string {
	return "sources"
}

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Tags == nil {
		s.Tags = datatypes.JSONSlice[string]{}
	}
	if s.Highlights == nil {
		s.Highlights = datatypes.JSONSlice[string]{}
	}
	if s.LinkedChapters == nil {
		s.LinkedChapters = datatypes.JSONSlice[string]{}
	}
	return nil
}

// BlobKey is the storage key of the source file, partitioned by category.
func (s Source) BlobKey() string {
	return path.Join(string(s.Category), s.Filename)
}

// SourceFilter narrows a catalog listing. Zero values mean "no filter".
type SourceFilter struct {
	Category SourceCategory
	Search   string
	Tag      string
}

// SourcePatch replaces whole annotation fields; nil fields are kept.
type SourcePatch struct {
	Tags           *[]string `json:"tags"`
	Highlights     *[]string `json:"highlights"`
	LinkedChapters *[]string `json:"linked_chapters"`
}

func (p SourcePatch) Empty() bool {
	return p.Tags == nil && p.Highlights == nil && p.LinkedChapters == nil
}
