package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookVariant string

const (
	BookVariantFull    BookVariant = "full"
	BookVariantBooklet BookVariant = "booklet"
)

// BookVariants lists every supported variant in display order.
var BookVariants = []BookVariant{BookVariantFull, BookVariantBooklet}

// ParseBookVariant maps a query or body value onto a variant.
// An empty value selects the full book; "book" is accepted as a legacy alias.
func ParseBookVariant(raw string) (BookVariant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "full", "book":
		return BookVariantFull, nil
	case "booklet":
		return BookVariantBooklet, nil
	default:
		return "", NewValidationError("bookType", "must be one of: full, booklet")
	}
}

type ChapterStatus string

const (
	ChapterStatusDraft   ChapterStatus = "draft"
	ChapterStatusEditing ChapterStatus = "editing"
	ChapterStatusReady   ChapterStatus = "ready"
)

var ChapterStatuses = []ChapterStatus{ChapterStatusDraft, ChapterStatusEditing, ChapterStatusReady}

func (s ChapterStatus) Valid() bool {
	for _, known := range ChapterStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Chapter is one section of a manuscript. OrderIndex is dense and zero-based
// within a BookVariant; the index is intentionally not unique so that a
// reorder can pass through intermediate states inside its transaction.
type Chapter struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	BookVariant BookVariant   `gorm:"index:idx_chapters_variant_order,priority:1;size:20;not null" json:"book_type"`
	Title       string        `gorm:"size:512;not null" json:"title"`
	Slug        string        `gorm:"size:512" json:"slug"`
	Content     string        `gorm:"type:text" json:"content"`
	OrderIndex  int           `gorm:"index:idx_chapters_variant_order,priority:2;not null" json:"order_index"`
	Status      ChapterStatus `gorm:"size:20;not null;default:draft" json:"status"`
	WordCount   int           `gorm:"not null;default:0" json:"word_count"`
	Notes       string        `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ChapterPatch carries a partial update. Nil fields are left untouched.
type ChapterPatch struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Status  *ChapterStatus `json:"status"`
	Notes   *string        `json:"notes"`
}

func (p ChapterPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Status == nil && p.Notes == nil
}

// ChapterPosition is a single entry of a reorder request.
type ChapterPosition struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}
