package services

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
)

type StartSessionInput struct {
	BookVariant entities.BookVariant `json:"bookType"`
	ChapterID   *string              `json:"chapterId"`
}

type FinishSessionInput struct {
	WordsWritten int `json:"wordsWritten"`
}

func (in FinishSessionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.WordsWritten, validation.Min(0)),
	)
}

// SessionService tracks writing sessions for the daily goal.
type SessionService struct {
	store    SessionStore
	chapters ChapterStore
	now      Clock
}

func NewSessionService(store SessionStore, chapters ChapterStore) *SessionService {
	return &SessionService{store: store, chapters: chapters, now: time.Now}
}

// Start opens a session. A chapter id, when given, must exist.
func (s *SessionService) Start(in StartSessionInput) (*entities.WritingSession, error) {
	variant, err := entities.ParseBookVariant(string(in.BookVariant))
	if err != nil {
		return nil, err
	}
	chapterID := blankToNil(in.ChapterID)
	if chapterID != nil {
		if _, err := s.chapters.GetChapter(strings.TrimSpace(*chapterID)); err != nil {
			return nil, err
		}
	}

	session := &entities.WritingSession{
		BookVariant: variant,
		ChapterID:   chapterID,
		StartedAt:   s.now(),
	}
	if err := s.store.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Finish(id string, in FinishSessionInput) (*entities.WritingSession, error) {
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	return s.store.FinishSession(id, s.now(), in.WordsWritten)
}

// List returns the sessions of a variant started at or after since. A zero
// since lists everything.
func (s *SessionService) List(variant entities.BookVariant, since time.Time) ([]entities.WritingSession, error) {
	return s.store.ListSessions(variant, since)
}
