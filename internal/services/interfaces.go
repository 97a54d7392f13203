package services

import (
	"time"

	"github.com/mrlokans/manuscript/internal/database/versions"
	"github.com/mrlokans/manuscript/internal/entities"
)

// ChapterStore persists chapters and keeps order_index dense per variant.
type ChapterStore interface {
	ListChapters(variant entities.BookVariant) ([]entities.Chapter, error)
	GetChapter(id string) (*entities.Chapter, error)
	CreateChapter(chapter *entities.Chapter) error
	UpdateChapter(id string, mutate func(*entities.Chapter) error) (*entities.Chapter, error)
	DeleteChapter(id string) (*entities.Chapter, error)
	ReorderChapters(positions []entities.ChapterPosition) error
	CountChapters(variant entities.BookVariant) (entities.ChapterCounts, int64, error)
}

// SourceStore persists source metadata. Blob bytes are handled separately.
type SourceStore interface {
	ListSources(filter entities.SourceFilter) ([]entities.Source, error)
	GetSource(id string) (*entities.Source, error)
	CreateSource(source *entities.Source) error
	UpdateSource(id string, patch entities.SourcePatch) (*entities.Source, error)
	DeleteSource(id string) (*entities.Source, error)
	Totals() (entities.SourceTotals, error)
}

type VersionStore interface {
	CaptureVersion(variant entities.BookVariant, build versions.SnapshotBuilder) (*entities.Version, error)
	ListVersions(variant entities.BookVariant) ([]entities.Version, error)
	GetVersion(id string) (*entities.Version, error)
	CountVersions(variant entities.BookVariant) (int64, error)
}

type QuoteStore interface {
	ListQuotes(search string) ([]entities.Quote, error)
	GetQuote(id string) (*entities.Quote, error)
	CreateQuote(quote *entities.Quote) error
	UpdateQuote(id string, mutate func(*entities.Quote) error) (*entities.Quote, error)
	DeleteQuote(id string) error
	CountQuotes() (int64, error)
}

type SessionStore interface {
	CreateSession(session *entities.WritingSession) error
	FinishSession(id string, endedAt time.Time, wordsWritten int) (*entities.WritingSession, error)
	ListSessions(variant entities.BookVariant, since time.Time) ([]entities.WritingSession, error)
	Totals(variant entities.BookVariant, since time.Time) (entities.SessionTotals, error)
}

// SettingsRepository is the key/value store behind settings.
type SettingsRepository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSettings(values map[string]string) error
	GetAllSettings() (map[string]string, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time
