// Package sessions provides database operations for the writing session log.
package sessions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/manuscript/internal/entities"
)

const resourceName = "writing session"

// Repository handles all writing session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSession(session *entities.WritingSession) error {
	session.StartedAt = session.StartedAt.UTC()
	if err := r.db.Create(session).Error; err != nil {
		return entities.NewStoreError("create writing session", err)
	}
	return nil
}

// FinishSession closes an open session. Finishing twice is rejected.
func (r *Repository) FinishSession(id string, endedAt time.Time, wordsWritten int) (*entities.WritingSession, error) {
	var finished *entities.WritingSession
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session entities.WritingSession
		err := tx.Where("id = ?", id).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.NewNotFoundError(resourceName, id)
		}
		if err != nil {
			return entities.NewStoreError("get writing session", err)
		}
		if session.EndedAt != nil {
			return entities.NewValidationError("id", "session already finished")
		}

		endedAt = endedAt.UTC()
		duration := int(endedAt.Sub(session.StartedAt).Seconds())
		if duration < 0 {
			duration = 0
		}
		err = tx.Model(&session).Updates(map[string]interface{}{
			"ended_at":         endedAt,
			"words_written":    wordsWritten,
			"duration_seconds": duration,
		}).Error
		if err != nil {
			return entities.NewStoreError("finish writing session", err)
		}
		session.EndedAt = &endedAt
		session.WordsWritten = wordsWritten
		session.DurationSeconds = duration
		finished = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finished, nil
}

// ListSessions returns sessions of a variant started at or after since, newest first.
func (r *Repository) ListSessions(variant entities.BookVariant, since time.Time) ([]entities.WritingSession, error) {
	sessions := []entities.WritingSession{}
	err := r.db.Where("book_variant = ? AND started_at >= ?", variant, since.UTC()).
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, entities.NewStoreError("list writing sessions", err)
	}
	return sessions, nil
}

// Totals sums the sessions of a variant started at or after since.
func (r *Repository) Totals(variant entities.BookVariant, since time.Time) (entities.SessionTotals, error) {
	var totals entities.SessionTotals
	err := r.db.Model(&entities.WritingSession{}).
		Select("COUNT(*) AS sessions, COALESCE(SUM(words_written), 0) AS words_written, COALESCE(SUM(duration_seconds), 0) AS duration_seconds").
		Where("book_variant = ? AND started_at >= ?", variant, since.UTC()).
		Scan(&totals).Error
	if err != nil {
		return entities.SessionTotals{}, entities.NewStoreError("writing session totals", err)
	}
	return totals, nil
}
