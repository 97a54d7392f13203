// Package settings provides database operations for application settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	setting, err := repo.GetSetting("theme")
package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/manuscript/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.NewNotFoundError("setting", key)
	}
	if err != nil {
		return nil, entities.NewStoreError("get setting", err)
	}
	return &setting, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	return r.SetSettings(map[string]string{key: value})
}

// SetSettings upserts every pair in one transaction.
func (r *Repository) SetSettings(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]entities.Setting, 0, len(values))
	for key, value := range values {
		rows = append(rows, entities.Setting{Key: key, Value: value})
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return entities.NewStoreError("upsert settings", err)
	}
	return nil
}

// GetAllSettings returns every setting as a key/value map.
func (r *Repository) GetAllSettings() (map[string]string, error) {
	var rows []entities.Setting
	if err := r.db.Order("key").Find(&rows).Error; err != nil {
		return nil, entities.NewStoreError("list settings", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	if err := r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error; err != nil {
		return entities.NewStoreError("delete setting", err)
	}
	return nil
}
