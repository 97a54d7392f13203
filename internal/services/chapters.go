package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/utils"
)

// CreateChapterInput is the payload of a new chapter.
type CreateChapterInput struct {
	BookVariant entities.BookVariant   `json:"bookType"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	Status      entities.ChapterStatus `json:"status"`
	Notes       string                 `json:"notes"`
}

func (in CreateChapterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required"), validation.Length(1, 512)),
		validation.Field(&in.Status, chapterStatusRule()),
	)
}

// ChapterService is the chapter registry: derived fields (slug, word count)
// are computed here, ordering is enforced by the store.
type ChapterService struct {
	store ChapterStore
	log   *logging.Logger
}

func NewChapterService(store ChapterStore, log *logging.Logger) *ChapterService {
	return &ChapterService{store: store, log: log}
}

func (s *ChapterService) List(variant entities.BookVariant) ([]entities.Chapter, error) {
	return s.store.ListChapters(variant)
}

func (s *ChapterService) Get(id string) (*entities.Chapter, error) {
	return s.store.GetChapter(id)
}

func (s *ChapterService) Create(in CreateChapterInput) (*entities.Chapter, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	variant, err := entities.ParseBookVariant(string(in.BookVariant))
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = entities.ChapterStatusDraft
	}

	chapter := &entities.Chapter{
		BookVariant: variant,
		Title:       in.Title,
		Slug:        utils.Slugify(in.Title),
		Content:     in.Content,
		Status:      in.Status,
		WordCount:   utils.CountWords(in.Content),
		Notes:       in.Notes,
	}
	if err := s.store.CreateChapter(chapter); err != nil {
		return nil, err
	}
	s.log.Debug("Chapter created", "id", chapter.ID, "book_type", variant, "order_index", chapter.OrderIndex)
	return chapter, nil
}

// Update applies only the fields present in patch.
func (s *ChapterService) Update(id string, patch entities.ChapterPatch) (*entities.Chapter, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, entities.NewValidationError("title", "title is required")
		}
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, entities.NewValidationError("status", "must be one of: draft, editing, ready")
	}

	return s.store.UpdateChapter(id, func(c *entities.Chapter) error {
		if patch.Title != nil {
			c.Title = *patch.Title
			c.Slug = utils.Slugify(c.Title)
		}
		if patch.Content != nil {
			c.Content = *patch.Content
			c.WordCount = utils.CountWords(c.Content)
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if patch.Notes != nil {
			c.Notes = *patch.Notes
		}
		return nil
	})
}

func (s *ChapterService) Delete(id string) error {
	deleted, err := s.store.DeleteChapter(id)
	if err != nil {
		return err
	}
	s.log.Debug("Chapter deleted", "id", id, "book_type", deleted.BookVariant, "order_index", deleted.OrderIndex)
	return nil
}

// Reorder applies a batch of positions atomically. An empty batch is a no-op.
func (s *ChapterService) Reorder(positions []entities.ChapterPosition) error {
	if len(positions) == 0 {
		return nil
	}
	return s.store.ReorderChapters(positions)
}
