package services

import (
	"time"

	"github.com/mrlokans/manuscript/internal/entities"
)

// WordGoalReader supplies the daily word goal.
type WordGoalReader interface {
	GetDailyWordGoal() int
}

type StatsService struct {
	chapters ChapterStore
	sources  SourceStore
	quotes   QuoteStore
	versions VersionStore
	sessions SessionStore
	goals    WordGoalReader
	now      Clock
}

func NewStatsService(chapters ChapterStore, sources SourceStore, quotes QuoteStore, versions VersionStore, sessions SessionStore, goals WordGoalReader) *StatsService {
	return &StatsService{
		chapters: chapters,
		sources:  sources,
		quotes:   quotes,
		versions: versions,
		sessions: sessions,
		goals:    goals,
		now:      time.Now,
	}
}

// Stats summarises one variant. "Today" starts at local midnight.
func (s *StatsService) Stats(variant entities.BookVariant) (*entities.Stats, error) {
	counts, words, err := s.chapters.CountChapters(variant)
	if err != nil {
		return nil, err
	}
	sources, err := s.sources.Totals()
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.CountQuotes()
	if err != nil {
		return nil, err
	}
	versions, err := s.versions.CountVersions(variant)
	if err != nil {
		return nil, err
	}
	today, err := s.sessions.Totals(variant, startOfDay(s.now()))
	if err != nil {
		return nil, err
	}

	return &entities.Stats{
		BookVariant:   variant,
		Chapters:      counts,
		TotalWords:    words,
		Sources:       sources,
		Quotes:        quotes,
		Versions:      versions,
		Today:         today,
		DailyWordGoal: s.goals.GetDailyWordGoal(),
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
