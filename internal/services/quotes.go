package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
)

type CreateQuoteInput struct {
	Text           string   `json:"text"`
	SourceID       *string  `json:"sourceId"`
	Tags           []string `json:"tags"`
	UsedInChapters []string `json:"usedInChapters"`
}

func (in CreateQuoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required.Error("quote text is required")),
	)
}

type QuoteService struct {
	store QuoteStore
}

func NewQuoteService(store QuoteStore) *QuoteService {
	return &QuoteService{store: store}
}

func (s *QuoteService) List(search string) ([]entities.Quote, error) {
	return s.store.ListQuotes(strings.TrimSpace(search))
}

func (s *QuoteService) Create(in CreateQuoteInput) (*entities.Quote, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	quote := &entities.Quote{
		Text:           in.Text,
		SourceID:       blankToNil(in.SourceID),
		Tags:           normalizeTags(in.Tags),
		UsedInChapters: normalizeTags(in.UsedInChapters),
	}
	if err := s.store.CreateQuote(quote); err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) Update(id string, patch entities.QuotePatch) (*entities.Quote, error) {
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, entities.NewValidationError("text", "quote text is required")
		}
		patch.Text = &text
	}
	return s.store.UpdateQuote(id, func(q *entities.Quote) error {
		if patch.Text != nil {
			q.Text = *patch.Text
		}
		if patch.SourceID != nil {
			q.SourceID = blankToNil(patch.SourceID)
		}
		if patch.Tags != nil {
			q.Tags = normalizeTags(*patch.Tags)
		}
		if patch.UsedInChapters != nil {
			q.UsedInChapters = normalizeTags(*patch.UsedInChapters)
		}
		return nil
	})
}

func (s *QuoteService) Delete(id string) error {
	return s.store.DeleteQuote(id)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
