// Package sources provides database operations for the source catalog.
//
// Listing filters are expressed as composable gorm scopes so that each
// predicate is written once and combined per request.
package sources

import (
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/manuscript/internal/entities"
)

const resourceName = "source"

// Repository handles all source metadata operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sources repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InCategory restricts a query to one category.
func InCategory(category entities.SourceCategory) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	}
}

// MatchingSearch is a loose, case-insensitive substring match over the
// original name and the serialized tag list.
func MatchingSearch(search string) func(*gorm.DB) *gorm.DB {
	pattern := LikePattern(search)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(original_name) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
}

// WithTag keeps sources whose tag list contains tag exactly.
func WithTag(tag string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("EXISTS (SELECT 1 FROM json_each(sources.tags) WHERE json_each.value = ?)", tag)
	}
}

// LikePattern lowercases s, escapes LIKE wildcards and wraps it in %.
func LikePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func scopesFor(filter entities.SourceFilter) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB
	if filter.Category != "" {
		scopes = append(scopes, InCategory(filter.Category))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		scopes = append(scopes, MatchingSearch(search))
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		scopes = append(scopes, WithTag(tag))
	}
	return scopes
}

// ListSources returns sources matching filter, newest first.
func (r *Repository) ListSources(filter entities.SourceFilter) ([]entities.Source, error) {
	sources := []entities.Source{}
	err := r.db.Scopes(scopesFor(filter)...).
		Order("created_at DESC").
		Find(&sources).Error
	if err != nil {
		return nil, entities.NewStoreError("list sources", err)
	}
	return sources, nil
}

// GetSource retrieves a source by ID.
func (r *Repository) GetSource(id string) (*entities.Source, error) {
	return getSource(r.db, id)
}

func getSource(db *gorm.DB, id string) (*entities.Source, error) {
	var source entities.Source
	err := db.Where("id = ?", id).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.NewNotFoundError(resourceName, id)
	}
	if err != nil {
		return nil, entities.NewStoreError("get source", err)
	}
	return &source, nil
}

// CreateSource inserts source metadata.
func (r *Repository) CreateSource(source *entities.Source) error {
	if err := r.db.Create(source).Error; err != nil {
		return entities.NewStoreError("create source", err)
	}
	return nil
}

// UpdateSource replaces the annotation fields present in patch.
func (r *Repository) UpdateSource(id string, patch entities.SourcePatch) (*entities.Source, error) {
	var updated *entities.Source
	err := r.db.Transaction(func(tx *gorm.DB) error {
		source, err := getSource(tx, id)
		if err != nil {
			return err
		}
		if patch.Tags != nil {
			source.Tags = datatypes.JSONSlice[string](nonNil(*patch.Tags))
		}
		if patch.Highlights != nil {
			source.Highlights = datatypes.JSONSlice[string](nonNil(*patch.Highlights))
		}
		if patch.LinkedChapters != nil {
			source.LinkedChapters = datatypes.JSONSlice[string](nonNil(*patch.LinkedChapters))
		}
		if err := tx.Save(source).Error; err != nil {
			return entities.NewStoreError("update source", err)
		}
		updated = source
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSource removes the metadata row and returns it so the caller can
// release the blob.
func (r *Repository) DeleteSource(id string) (*entities.Source, error) {
	var deleted *entities.Source
	err := r.db.Transaction(func(tx *gorm.DB) error {
		source, err := getSource(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&entities.Source{}, "id = ?", id).Error; err != nil {
			return entities.NewStoreError("delete source", err)
		}
		deleted = source
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Totals returns the number of sources and their combined size.
func (r *Repository) Totals() (entities.SourceTotals, error) {
	var totals entities.SourceTotals
	err := r.db.Model(&entities.Source{}).
		Select("COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS total_size").
		Scan(&totals).Error
	if err != nil {
		return entities.SourceTotals{}, entities.NewStoreError("source totals", err)
	}
	return totals, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
