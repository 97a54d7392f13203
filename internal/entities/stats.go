package entities

// ChapterCounts breaks the chapters of a variant down by status.
type ChapterCounts struct {
	Total   int64 `json:"total"`
	Draft   int64 `json:"draft"`
	Editing int64 `json:"editing"`
	Ready   int64 `json:"ready"`
}

type SourceTotals struct {
	Count     int64 `json:"count"`
	TotalSize int64 `json:"total_size"`
}

// Stats is the dashboard summary for one variant.
type Stats struct {
	BookVariant   BookVariant   `json:"book_type"`
	Chapters      ChapterCounts `json:"chapters"`
	TotalWords    int64         `json:"total_words"`
	Sources       SourceTotals  `json:"sources"`
	Quotes        int64         `json:"quotes"`
	Versions      int64         `json:"versions"`
	Today         SessionTotals `json:"today"`
	DailyWordGoal int           `json:"daily_word_goal"`
}
