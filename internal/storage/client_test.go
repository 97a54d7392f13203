package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterFiles_OlderThan(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "old.pdf", ModifiedAt: now.Add(-48 * time.Hour)},
		{Name: "fresh.pdf", ModifiedAt: now.Add(-time.Hour)},
		{Name: "ancient-web", IsDir: true, ModifiedAt: now.Add(-30 * 24 * time.Hour)},
	}

	stale := FilterFiles(files, OlderThan(now.Add(-24*time.Hour)))

	assert.Len(t, stale, 2)
	assert.Equal(t, "old.pdf", stale[0].Name)
	assert.Equal(t, "ancient-web", stale[1].Name)
}

func TestOlderThan_SkipsEntriesWithoutTime(t *testing.T) {
	files := []FileInfo{
		{Name: "full-web-fresh", Path: "web/full-web-fresh", IsDir: true},
	}

	assert.Empty(t, FilterFiles(files, OlderThan(time.Now().Add(-30*24*time.Hour))))
}

func TestFilterFiles_Empty(t *testing.T) {
	assert.Nil(t, FilterFiles(nil, OlderThan(time.Now())))
}
