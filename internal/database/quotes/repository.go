// Package quotes provides database operations for the quote bank.
package quotes

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/manuscript/internal/database/sources"
	"github.com/mrlokans/manuscript/internal/entities"
)

const resourceName = "quote"

// Repository handles all quote database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new quotes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListQuotes returns quotes whose text or tags contain search, newest first.
func (r *Repository) ListQuotes(search string) ([]entities.Quote, error) {
	quotes := []entities.Quote{}
	query := r.db.Order("created_at DESC")
	if search = strings.TrimSpace(search); search != "" {
		pattern := sources.LikePattern(search)
		query = query.Where(`LOWER(text) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if err := query.Find(&quotes).Error; err != nil {
		return nil, entities.NewStoreError("list quotes", err)
	}
	return quotes, nil
}

func (r *Repository) GetQuote(id string) (*entities.Quote, error) {
	return getQuote(r.db, id)
}

func getQuote(db *gorm.DB, id string) (*entities.Quote, error) {
	var quote entities.Quote
	err := db.Where("id = ?", id).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.NewNotFoundError(resourceName, id)
	}
	if err != nil {
		return nil, entities.NewStoreError("get quote", err)
	}
	return &quote, nil
}

func (r *Repository) CreateQuote(quote *entities.Quote) error {
	if err := r.db.Create(quote).Error; err != nil {
		return entities.NewStoreError("create quote", err)
	}
	return nil
}

// UpdateQuote applies mutate to the stored quote inside a transaction.
func (r *Repository) UpdateQuote(id string, mutate func(*entities.Quote) error) (*entities.Quote, error) {
	var updated *entities.Quote
	err := r.db.Transaction(func(tx *gorm.DB) error {
		quote, err := getQuote(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(quote); err != nil {
			return err
		}
		if err := tx.Save(quote).Error; err != nil {
			return entities.NewStoreError("update quote", err)
		}
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) DeleteQuote(id string) error {
	result := r.db.Delete(&entities.Quote{}, "id = ?", id)
	if result.Error != nil {
		return entities.NewStoreError("delete quote", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.NewNotFoundError(resourceName, id)
	}
	return nil
}

func (r *Repository) CountQuotes() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.Quote{}).Count(&count).Error; err != nil {
		return 0, entities.NewStoreError("count quotes", err)
	}
	return count, nil
}
