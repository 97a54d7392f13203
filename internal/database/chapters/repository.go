// Package chapters provides database operations for manuscript chapters and
// maintains the dense order_index sequence of each book variant.
//
// # Usage
//
//	repo := chapters.NewRepository(db)
//	list, err := repo.ListChapters(entities.BookVariantFull)
package chapters

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/manuscript/internal/entities"
)

const resourceName = "chapter"

// Repository handles all chapter database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new chapters repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListChapters returns the chapters of a variant ascending by order_index.
func (r *Repository) ListChapters(variant entities.BookVariant) ([]entities.Chapter, error) {
	return listChapters(r.db, variant)
}

// ListChaptersTx is ListChapters bound to an open transaction.
func ListChaptersTx(tx *gorm.DB, variant entities.BookVariant) ([]entities.Chapter, error) {
	return listChapters(tx, variant)
}

func listChapters(db *gorm.DB, variant entities.BookVariant) ([]entities.Chapter, error) {
	chapters := []entities.Chapter{}
	err := db.Where("book_variant = ?", variant).
		Order("order_index ASC").
		Order("created_at ASC").
		Find(&chapters).Error
	if err != nil {
		return nil, entities.NewStoreError("list chapters", err)
	}
	return chapters, nil
}

// GetChapter retrieves a chapter by ID.
func (r *Repository) GetChapter(id string) (*entities.Chapter, error) {
	return getChapter(r.db, id)
}

func getChapter(db *gorm.DB, id string) (*entities.Chapter, error) {
	var chapter entities.Chapter
	err := db.Where("id = ?", id).First(&chapter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.NewNotFoundError(resourceName, id)
	}
	if err != nil {
		return nil, entities.NewStoreError("get chapter", err)
	}
	return &chapter, nil
}

// CreateChapter appends a chapter to the end of its variant. The order index
// is assigned inside the transaction and any value set by the caller is ignored.
func (r *Repository) CreateChapter(chapter *entities.Chapter) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next int
		err := tx.Model(&entities.Chapter{}).
			Where("book_variant = ?", chapter.BookVariant).
			Select("COALESCE(MAX(order_index), -1) + 1").
			Scan(&next).Error
		if err != nil {
			return entities.NewStoreError("next order index", err)
		}

		chapter.OrderIndex = next
		if err := tx.Create(chapter).Error; err != nil {
			return entities.NewStoreError("create chapter", err)
		}
		return nil
	})
}

// UpdateChapter loads the chapter, applies mutate and saves it in one
// transaction. A mutate error aborts the update and is returned as is.
func (r *Repository) UpdateChapter(id string, mutate func(*entities.Chapter) error) (*entities.Chapter, error) {
	var updated *entities.Chapter
	err := r.db.Transaction(func(tx *gorm.DB) error {
		chapter, err := getChapter(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(chapter); err != nil {
			return err
		}
		chapter.UpdatedAt = time.Now().UTC()
		if err := tx.Save(chapter).Error; err != nil {
			return entities.NewStoreError("update chapter", err)
		}
		updated = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteChapter removes a chapter and repacks the remaining chapters of the
// same variant to 0..N-1, preserving their relative order.
func (r *Repository) DeleteChapter(id string) (*entities.Chapter, error) {
	var deleted *entities.Chapter
	err := r.db.Transaction(func(tx *gorm.DB) error {
		chapter, err := getChapter(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&entities.Chapter{}, "id = ?", id).Error; err != nil {
			return entities.NewStoreError("delete chapter", err)
		}
		if err := repack(tx, chapter.BookVariant); err != nil {
			return err
		}
		deleted = chapter
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// repack rewrites order_index of a variant as a dense 0-based sequence.
// updated_at is left alone: position repair is not an edit.
func repack(tx *gorm.DB, variant entities.BookVariant) error {
	remaining, err := listChapters(tx, variant)
	if err != nil {
		return err
	}
	for i, ch := range remaining {
		if ch.OrderIndex == i {
			continue
		}
		err := tx.Model(&entities.Chapter{}).
			Where("id = ?", ch.ID).
			UpdateColumn("order_index", i).Error
		if err != nil {
			return entities.NewStoreError("repack chapters", err)
		}
	}
	return nil
}

// ReorderChapters applies all positions atomically. Every id must exist and
// every variant touched must end up dense, otherwise nothing is changed.
func (r *Repository) ReorderChapters(positions []entities.ChapterPosition) error {
	if len(positions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(positions))
	seen := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		if p.ID == "" {
			return entities.NewValidationError("id", "is required")
		}
		if p.OrderIndex < 0 {
			return entities.NewValidationError("order_index", "must be non-negative")
		}
		if _, dup := seen[p.ID]; dup {
			return entities.NewValidationError("id", fmt.Sprintf("chapter %s appears more than once", p.ID))
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var found []entities.Chapter
		err := tx.Select("id", "book_variant").Where("id IN ?", ids).Find(&found).Error
		if err != nil {
			return entities.NewStoreError("load chapters for reorder", err)
		}

		variants := make(map[string]entities.BookVariant, len(found))
		for _, ch := range found {
			variants[ch.ID] = ch.BookVariant
		}
		for _, id := range ids {
			if _, ok := variants[id]; !ok {
				return entities.NewNotFoundError(resourceName, id)
			}
		}

		now := time.Now().UTC()
		touched := map[entities.BookVariant]struct{}{}
		for _, p := range positions {
			err := tx.Model(&entities.Chapter{}).
				Where("id = ?", p.ID).
				UpdateColumns(map[string]interface{}{
					"order_index": p.OrderIndex,
					"updated_at":  now,
				}).Error
			if err != nil {
				return entities.NewStoreError("reorder chapters", err)
			}
			touched[variants[p.ID]] = struct{}{}
		}

		for variant := range touched {
			if err := checkDense(tx, variant); err != nil {
				return err
			}
		}
		return nil
	})
}

func checkDense(tx *gorm.DB, variant entities.BookVariant) error {
	var indexes []int
	err := tx.Model(&entities.Chapter{}).
		Where("book_variant = ?", variant).
		Order("order_index ASC").
		Pluck("order_index", &indexes).Error
	if err != nil {
		return entities.NewStoreError("verify chapter order", err)
	}
	for i, idx := range indexes {
		if idx != i {
			return entities.NewValidationError("order_index",
				fmt.Sprintf("positions for %s must form a permutation of 0..%d", variant, len(indexes)-1))
		}
	}
	return nil
}

// CountChapters aggregates chapter counts and words for a variant.
func (r *Repository) CountChapters(variant entities.BookVariant) (entities.ChapterCounts, int64, error) {
	var rows []struct {
		Status entities.ChapterStatus
		Count  int64
		Words  int64
	}
	err := r.db.Model(&entities.Chapter{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(word_count), 0) AS words").
		Where("book_variant = ?", variant).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return entities.ChapterCounts{}, 0, entities.NewStoreError("count chapters", err)
	}

	var counts entities.ChapterCounts
	var words int64
	for _, row := range rows {
		counts.Total += row.Count
		words += row.Words
		switch row.Status {
		case entities.ChapterStatusDraft:
			counts.Draft = row.Count
		case entities.ChapterStatusEditing:
			counts.Editing = row.Count
		case entities.ChapterStatusReady:
			counts.Ready = row.Count
		}
	}
	return counts, words, nil
}
