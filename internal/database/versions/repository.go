// Package versions provides database operations for append-only manuscript
// snapshots. There is deliberately no update operation.
package versions

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/manuscript/internal/database/chapters"
	"github.com/mrlokans/manuscript/internal/entities"
)

const resourceName = "version"

// Repository handles all version database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new versions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SnapshotBuilder turns the ordered chapters of a variant into a Version row.
type SnapshotBuilder func(chapters []entities.Chapter) (*entities.Version, error)

// CaptureVersion reads the chapters of variant and inserts the version built
// from them within one transaction, so the snapshot never mixes states.
func (r *Repository) CaptureVersion(variant entities.BookVariant, build SnapshotBuilder) (*entities.Version, error) {
	var captured *entities.Version
	err := r.db.Transaction(func(tx *gorm.DB) error {
		list, err := chapters.ListChaptersTx(tx, variant)
		if err != nil {
			return err
		}
		version, err := build(list)
		if err != nil {
			return err
		}
		version.BookVariant = variant
		if err := tx.Create(version).Error; err != nil {
			return entities.NewStoreError("create version", err)
		}
		captured = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return captured, nil
}

// ListVersions returns the versions of a variant, most recent first, without
// their snapshot payload.
func (r *Repository) ListVersions(variant entities.BookVariant) ([]entities.Version, error) {
	versions := []entities.Version{}
	err := r.db.Omit("snapshot").
		Where("book_variant = ?", variant).
		Order("created_at DESC").
		Order("rowid DESC").
		Find(&versions).Error
	if err != nil {
		return nil, entities.NewStoreError("list versions", err)
	}
	return versions, nil
}

// GetVersion retrieves a version including its snapshot.
func (r *Repository) GetVersion(id string) (*entities.Version, error) {
	var version entities.Version
	err := r.db.Where("id = ?", id).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.NewNotFoundError(resourceName, id)
	}
	if err != nil {
		return nil, entities.NewStoreError("get version", err)
	}
	return &version, nil
}

// CountVersions returns how many versions exist for a variant.
func (r *Repository) CountVersions(variant entities.BookVariant) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Version{}).Where("book_variant = ?", variant).Count(&count).Error
	if err != nil {
		return 0, entities.NewStoreError("count versions", err)
	}
	return count, nil
}
