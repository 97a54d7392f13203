package chapters

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "chapters.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func create(t *testing.T, repo *Repository, variant entities.BookVariant, title string) *entities.Chapter {
	t.Helper()
	ch := &entities.Chapter{BookVariant: variant, Title: title, Status: entities.ChapterStatusDraft}
	require.NoError(t, repo.CreateChapter(ch))
	return ch
}

func titles(chapters []entities.Chapter) []string {
	out := make([]string, len(chapters))
	for i, ch := range chapters {
		out[i] = ch.Title
	}
	return out
}

func assertDense(t *testing.T, chapters []entities.Chapter) {
	t.Helper()
	for i, ch := range chapters {
		assert.Equal(t, i, ch.OrderIndex, "chapter %q", ch.Title)
	}
}

func TestRepository_CreateChapter_AppendsToVariant(t *testing.T) {
	repo := setupTestDB(t)

	a := create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")
	other := create(t, repo, entities.BookVariantBooklet, "Booklet intro")

	assert.Equal(t, 0, a.OrderIndex)
	assert.Equal(t, 1, b.OrderIndex)
	assert.Equal(t, 0, other.OrderIndex)
	assert.NotEmpty(t, a.ID)
}

func TestRepository_CreateChapter_IgnoresCallerIndex(t *testing.T) {
	repo := setupTestDB(t)

	ch := &entities.Chapter{BookVariant: entities.BookVariantFull, Title: "A", OrderIndex: 7}
	require.NoError(t, repo.CreateChapter(ch))

	assert.Equal(t, 0, ch.OrderIndex)
}

func TestRepository_ListChapters_Empty(t *testing.T) {
	repo := setupTestDB(t)

	list, err := repo.ListChapters(entities.BookVariantFull)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRepository_GetChapter_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetChapter("missing")

	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestRepository_DeleteChapter_RepacksPreservingOrder(t *testing.T) {
	repo := setupTestDB(t)
	create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")
	create(t, repo, entities.BookVariantFull, "C")
	create(t, repo, entities.BookVariantFull, "D")

	deleted, err := repo.DeleteChapter(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", deleted.Title)

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, titles(list))
	assertDense(t, list)
}

func TestRepository_DeleteChapter_LeavesOtherVariantAlone(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	create(t, repo, entities.BookVariantBooklet, "X")
	create(t, repo, entities.BookVariantBooklet, "Y")

	_, err := repo.DeleteChapter(a.ID)
	require.NoError(t, err)

	list, err := repo.ListChapters(entities.BookVariantBooklet)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, titles(list))
	assertDense(t, list)
}

func TestRepository_DeleteChapter_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.DeleteChapter("missing")

	var nf *entities.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRepository_RandomCreateDeleteStaysDense(t *testing.T) {
	repo := setupTestDB(t)
	rng := rand.New(rand.NewSource(42))
	var ids []string

	for step := 0; step < 60; step++ {
		if len(ids) == 0 || rng.Intn(3) > 0 {
			ch := create(t, repo, entities.BookVariantFull, fmt.Sprintf("ch-%d", step))
			ids = append(ids, ch.ID)
		} else {
			k := rng.Intn(len(ids))
			_, err := repo.DeleteChapter(ids[k])
			require.NoError(t, err)
			ids = append(ids[:k], ids[k+1:]...)
		}

		list, err := repo.ListChapters(entities.BookVariantFull)
		require.NoError(t, err)
		require.Len(t, list, len(ids))
		for i, ch := range list {
			require.Equal(t, i, ch.OrderIndex)
			require.Equal(t, ids[i], ch.ID)
		}
	}
}

func TestRepository_ReorderChapters_AppliesPermutation(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")
	c := create(t, repo, entities.BookVariantFull, "C")

	err := repo.ReorderChapters([]entities.ChapterPosition{
		{ID: c.ID, OrderIndex: 0},
		{ID: a.ID, OrderIndex: 1},
		{ID: b.ID, OrderIndex: 2},
	})
	require.NoError(t, err)

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(list))
	assertDense(t, list)
}

func TestRepository_ReorderChapters_IdentityIsNoop(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")

	require.NoError(t, repo.ReorderChapters([]entities.ChapterPosition{
		{ID: a.ID, OrderIndex: 0},
		{ID: b.ID, OrderIndex: 1},
	}))

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(list))
}

func TestRepository_ReorderChapters_EmptyIsNoop(t *testing.T) {
	repo := setupTestDB(t)
	assert.NoError(t, repo.ReorderChapters(nil))
}

func TestRepository_ReorderChapters_RollsBackOnGap(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")

	err := repo.ReorderChapters([]entities.ChapterPosition{
		{ID: a.ID, OrderIndex: 1},
		{ID: b.ID, OrderIndex: 5},
	})
	assert.True(t, errors.Is(err, entities.ErrValidation))

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(list))
	assertDense(t, list)
}

func TestRepository_ReorderChapters_RollsBackOnDuplicateIndex(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	b := create(t, repo, entities.BookVariantFull, "B")

	err := repo.ReorderChapters([]entities.ChapterPosition{
		{ID: a.ID, OrderIndex: 1},
		{ID: b.ID, OrderIndex: 1},
	})
	assert.True(t, errors.Is(err, entities.ErrValidation))

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assertDense(t, list)
}

func TestRepository_ReorderChapters_UnknownID(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	create(t, repo, entities.BookVariantFull, "B")

	err := repo.ReorderChapters([]entities.ChapterPosition{
		{ID: a.ID, OrderIndex: 1},
		{ID: "missing", OrderIndex: 0},
	})
	assert.True(t, errors.Is(err, entities.ErrNotFound))

	list, err := repo.ListChapters(entities.BookVariantFull)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(list))
}

func TestRepository_ReorderChapters_RejectsBadInput(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")

	err := repo.ReorderChapters([]entities.ChapterPosition{{ID: a.ID, OrderIndex: -1}})
	assert.True(t, errors.Is(err, entities.ErrValidation))

	err = repo.ReorderChapters([]entities.ChapterPosition{{ID: a.ID, OrderIndex: 0}, {ID: a.ID, OrderIndex: 0}})
	assert.True(t, errors.Is(err, entities.ErrValidation))
}

func TestRepository_UpdateChapter_RefreshesUpdatedAt(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")
	before := a.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := repo.UpdateChapter(a.ID, func(ch *entities.Chapter) error {
		ch.Notes = "revise"
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "revise", updated.Notes)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Equal(t, 0, updated.OrderIndex)
}

func TestRepository_UpdateChapter_MutateErrorAborts(t *testing.T) {
	repo := setupTestDB(t)
	a := create(t, repo, entities.BookVariantFull, "A")

	_, err := repo.UpdateChapter(a.ID, func(ch *entities.Chapter) error {
		ch.Title = "changed"
		return entities.NewValidationError("title", "nope")
	})
	require.Error(t, err)

	stored, err := repo.GetChapter(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Title)
}

func TestRepository_CountChapters(t *testing.T) {
	repo := setupTestDB(t)
	require.NoError(t, repo.CreateChapter(&entities.Chapter{BookVariant: entities.BookVariantFull, Title: "A", Status: entities.ChapterStatusDraft, WordCount: 10}))
	require.NoError(t, repo.CreateChapter(&entities.Chapter{BookVariant: entities.BookVariantFull, Title: "B", Status: entities.ChapterStatusReady, WordCount: 5}))
	require.NoError(t, repo.CreateChapter(&entities.Chapter{BookVariant: entities.BookVariantFull, Title: "C", Status: entities.ChapterStatusReady, WordCount: 1}))
	require.NoError(t, repo.CreateChapter(&entities.Chapter{BookVariant: entities.BookVariantBooklet, Title: "X", Status: entities.ChapterStatusEditing, WordCount: 100}))

	counts, words, err := repo.CountChapters(entities.BookVariantFull)

	require.NoError(t, err)
	assert.Equal(t, entities.ChapterCounts{Total: 3, Draft: 1, Ready: 2}, counts)
	assert.Equal(t, int64(16), words)
}
